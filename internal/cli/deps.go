package cli

import (
	"context"
	"net/http"
	"os"

	"github.com/hostbay/caddex/internal/builds"
	"github.com/hostbay/caddex/internal/caddy"
	"github.com/hostbay/caddex/internal/config"
	"github.com/hostbay/caddex/internal/executor"
	"github.com/hostbay/caddex/internal/input"
	"github.com/hostbay/caddex/internal/registry"
	"github.com/hostbay/caddex/internal/template"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader   ConfigLoader
	RegistryLoader RegistryLoader
	ServiceFactory ServiceFactory
	RootChecker    RootChecker
	StdinReader    StdinReader
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// RegistryLoader handles project registry loading and saving
type RegistryLoader interface {
	Load() (*registry.Registry, error)
	Save(reg *registry.Registry) error
}

// ServiceFactory creates the proxy service
type ServiceFactory interface {
	Create(cfg *config.Config) (ProxyService, error)
}

// ProxyService is the surface of caddy.Service the commands use
type ProxyService interface {
	Initialize(ctx context.Context, projects []*registry.Project) error
	UpdateProjectConfig(ctx context.Context, p *registry.Project) error
	DeleteProjectConfig(ctx context.Context, projectID string) error
	UpdateSystemConfig(ctx context.Context, domain string) error
	RemoveSystemConfig(ctx context.Context) error
	HasSystemDomain() bool
	SecurityMode() caddy.SecurityMode
	CheckStatus(ctx context.Context) caddy.Status
	ProjectURL(p *registry.Project, serverIP string) string
	Validate(ctx context.Context) (bool, string)
	Apply(ctx context.Context) error
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// StdinReader reads from stdin
type StdinReader interface {
	ReadString(delim byte) (string, error)
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:   &realConfigLoader{},
	RegistryLoader: &realRegistryLoader{},
	ServiceFactory: &realServiceFactory{},
	RootChecker:    &realRootChecker{},
	StdinReader:    &realStdinReader{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load() (*config.Config, error) {
	return config.Load()
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

type realRegistryLoader struct{}

func (r *realRegistryLoader) Load() (*registry.Registry, error) {
	path, err := registry.DefaultPath()
	if err != nil {
		return nil, err
	}
	return registry.Load(path)
}

func (r *realRegistryLoader) Save(reg *registry.Registry) error {
	return reg.Save()
}

type realServiceFactory struct{}

func (r *realServiceFactory) Create(cfg *config.Config) (ProxyService, error) {
	store, err := template.NewStore()
	if err != nil {
		return nil, err
	}
	return caddy.NewService(cfg, store, builds.NewDetector(), executor.NewSystemRunner(), http.DefaultClient), nil
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return errRootRequired
	}
	return nil
}

type realStdinReader struct {
	reader input.Reader
}

func (r *realStdinReader) ReadString(delim byte) (string, error) {
	if r.reader == nil {
		r.reader = input.NewStdinReader()
	}
	return r.reader.ReadString(delim)
}
