package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hostbay/caddex/internal/config"
	"github.com/hostbay/caddex/internal/errors"
)

// registryFile is the project store, kept next to the tool config
const registryFile = "projects.yaml"

// Registry is the persistent store of registered projects
type Registry struct {
	Projects map[string]*Project `yaml:"projects"` // keyed by project ID

	path string
}

// New creates an empty Registry persisted at the given path
func New(path string) *Registry {
	return &Registry{
		Projects: make(map[string]*Project),
		path:     path,
	}
}

// DefaultPath returns the registry file path under the tool config directory
func DefaultPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, registryFile), nil
}

// Load reads the registry from disk, returning an empty registry when the
// file does not exist yet
func Load(path string) (*Registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	reg := New(path)
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	if reg.Projects == nil {
		reg.Projects = make(map[string]*Project)
	}

	return reg, nil
}

// Save writes the registry to disk
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry %s: %w", r.path, err)
	}

	return nil
}

// Add registers a project. The project name must be unique.
func (r *Registry) Add(p *Project) error {
	for _, existing := range r.Projects {
		if existing.Name == p.Name {
			return errors.AlreadyExists(p.Name)
		}
	}
	r.Projects[p.ID] = p
	return nil
}

// Get returns a project by ID
func (r *Registry) Get(id string) (*Project, error) {
	p, exists := r.Projects[id]
	if !exists {
		return nil, errors.NotFound(id)
	}
	return p, nil
}

// GetByName returns a project by its unique name
func (r *Registry) GetByName(name string) (*Project, error) {
	for _, p := range r.Projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.NotFound(name)
}

// Resolve returns a project by ID or, failing that, by name
func (r *Registry) Resolve(ref string) (*Project, error) {
	if p, err := r.Get(ref); err == nil {
		return p, nil
	}
	return r.GetByName(ref)
}

// Remove unregisters a project by ID
func (r *Registry) Remove(id string) error {
	if _, exists := r.Projects[id]; !exists {
		return errors.NotFound(id)
	}
	delete(r.Projects, id)
	return nil
}

// List returns all projects ordered by name
func (r *Registry) List() []*Project {
	projects := make([]*Project, 0, len(r.Projects))
	for _, p := range r.Projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})
	return projects
}
