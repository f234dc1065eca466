// Package executor provides command execution with an injectable interface
// so that callers invoking the proxy binary or the service manager can be
// tested without real child processes.
package executor

import (
	"bytes"
	"context"
	"os/exec"
)

// Result holds the outcome of one command invocation. Stdout and stderr
// are captured separately because reload callers must distinguish benign
// informational stderr output from real failures.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner is an interface for executing system commands.
type CommandRunner interface {
	// Run executes a command and captures its output. The context bounds
	// the command's lifetime; a hung child process is killed when the
	// context expires. The returned error is non-nil for start failures
	// and for non-zero exits, with Result populated in the latter case.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemRunner implements CommandRunner using os/exec.
type SystemRunner struct{}

// NewSystemRunner creates a new SystemRunner.
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{}
}

// Run executes a command with stdout and stderr captured separately.
func (r *SystemRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	return result, err
}

// LookPath searches for an executable.
func (r *SystemRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// MockRunner is a mock implementation for testing.
type MockRunner struct {
	RunFunc      func(ctx context.Context, name string, args ...string) (Result, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification.
type CommandCall struct {
	Name string
	Args []string
}

// Run records the call and invokes the mock function if set.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return Result{}, nil
}

// LookPath calls the mock function.
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}
