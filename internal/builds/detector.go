// Package builds locates the compiled output directory of static projects.
package builds

import (
	"os"
	"path/filepath"
)

// outputCandidates are probed in order under a project directory. The
// first existing directory wins.
var outputCandidates = []string{"dist", "build", "out", "public"}

// Detector resolves the build output directory for a project.
type Detector interface {
	// Detect returns the compiled output directory under projectDir for
	// the given project type, or "" when none is recognized.
	Detect(projectDir, projectType string) string
}

// DirDetector probes the filesystem for well-known build output
// directory names.
type DirDetector struct{}

// NewDetector creates a filesystem-backed Detector.
func NewDetector() *DirDetector {
	return &DirDetector{}
}

// Detect probes the candidate output directories in order.
func (d *DirDetector) Detect(projectDir, projectType string) string {
	for _, candidate := range outputCandidates {
		path := filepath.Join(projectDir, candidate)
		if dirExists(path) {
			return path
		}
	}
	return ""
}

// MockDetector is a test double returning a fixed path.
type MockDetector struct {
	Path  string
	Calls []DetectCall
}

// DetectCall records arguments passed to Detect.
type DetectCall struct {
	ProjectDir  string
	ProjectType string
}

// Detect records the call and returns the configured path.
func (m *MockDetector) Detect(projectDir, projectType string) string {
	m.Calls = append(m.Calls, DetectCall{ProjectDir: projectDir, ProjectType: projectType})
	return m.Path
}

// dirExists checks if a path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
