package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/hostbay/caddex/internal/caddy"
	"github.com/hostbay/caddex/internal/config"
	"github.com/hostbay/caddex/internal/registry"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockConfigLoader) Load() (*config.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockRegistryLoader is a test double for RegistryLoader
type MockRegistryLoader struct {
	Reg       *registry.Registry
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockRegistryLoader) Load() (*registry.Registry, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Reg == nil {
		m.Reg = registry.New("")
	}
	return m.Reg, nil
}

func (m *MockRegistryLoader) Save(reg *registry.Registry) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Reg = reg
	return nil
}

// MockProxyService is a test double for ProxyService with call recording
type MockProxyService struct {
	InitializeErr error
	UpdateErr     error
	DeleteErr     error
	SystemErr     error
	ApplyErr      error

	SystemDomain   bool
	Mode           caddy.SecurityMode
	Status         caddy.Status
	Valid          bool
	ValidateOutput string
	URL            string

	Initialized   [][]*registry.Project
	Updated       []*registry.Project
	Deleted       []string
	SystemDomains []string
	SystemRemoved int
	ApplyCalls    int
}

func (m *MockProxyService) Initialize(ctx context.Context, projects []*registry.Project) error {
	m.Initialized = append(m.Initialized, projects)
	return m.InitializeErr
}

func (m *MockProxyService) UpdateProjectConfig(ctx context.Context, p *registry.Project) error {
	m.Updated = append(m.Updated, p)
	return m.UpdateErr
}

func (m *MockProxyService) DeleteProjectConfig(ctx context.Context, projectID string) error {
	m.Deleted = append(m.Deleted, projectID)
	return m.DeleteErr
}

func (m *MockProxyService) UpdateSystemConfig(ctx context.Context, domain string) error {
	if m.SystemErr != nil {
		return m.SystemErr
	}
	m.SystemDomains = append(m.SystemDomains, domain)
	m.SystemDomain = true
	return nil
}

func (m *MockProxyService) RemoveSystemConfig(ctx context.Context) error {
	if m.SystemErr != nil {
		return m.SystemErr
	}
	m.SystemRemoved++
	m.SystemDomain = false
	return nil
}

func (m *MockProxyService) HasSystemDomain() bool {
	return m.SystemDomain
}

func (m *MockProxyService) SecurityMode() caddy.SecurityMode {
	if m.Mode != "" {
		return m.Mode
	}
	if m.SystemDomain {
		return caddy.SecurityModeDomainHTTPS
	}
	return caddy.SecurityModeIPHTTP
}

func (m *MockProxyService) CheckStatus(ctx context.Context) caddy.Status {
	return m.Status
}

func (m *MockProxyService) ProjectURL(p *registry.Project, serverIP string) string {
	if m.URL != "" {
		return m.URL
	}
	if len(p.Domains) > 0 {
		return "https://" + p.Domains[0]
	}
	host := serverIP
	if host == "" {
		host = "localhost"
	}
	return "http://" + host + "/app/" + registry.Slug(p.Name)
}

func (m *MockProxyService) Validate(ctx context.Context) (bool, string) {
	return m.Valid, m.ValidateOutput
}

func (m *MockProxyService) Apply(ctx context.Context) error {
	m.ApplyCalls++
	return m.ApplyErr
}

// MockServiceFactory is a test double for ServiceFactory
type MockServiceFactory struct {
	Service ProxyService
	Err     error
}

func (m *MockServiceFactory) Create(cfg *config.Config) (ProxyService, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Service == nil {
		m.Service = &MockProxyService{Valid: true}
	}
	return m.Service, nil
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return errRootRequired
	}
	return nil
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", errors.New("EOF")
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, nil
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:   &MockConfigLoader{Cfg: config.New()},
			RegistryLoader: &MockRegistryLoader{Reg: registry.New("")},
			ServiceFactory: &MockServiceFactory{Service: &MockProxyService{Valid: true}},
			RootChecker:    &MockRootChecker{IsRoot: true},
			StdinReader:    &MockStdinReader{Input: "y\n"},
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithRegistry sets the project registry for the mock
func (b *MockDependenciesBuilder) WithRegistry(reg *registry.Registry) *MockDependenciesBuilder {
	b.deps.RegistryLoader = &MockRegistryLoader{Reg: reg}
	return b
}

// WithRegistryLoader sets a custom registry loader
func (b *MockDependenciesBuilder) WithRegistryLoader(loader RegistryLoader) *MockDependenciesBuilder {
	b.deps.RegistryLoader = loader
	return b
}

// WithService sets the proxy service for the mock
func (b *MockDependenciesBuilder) WithService(svc ProxyService) *MockDependenciesBuilder {
	b.deps.ServiceFactory = &MockServiceFactory{Service: svc}
	return b
}

// WithServiceError sets an error for service creation
func (b *MockDependenciesBuilder) WithServiceError(err error) *MockDependenciesBuilder {
	b.deps.ServiceFactory = &MockServiceFactory{Err: err}
	return b
}

// WithRootAccess sets whether root access is available
func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(input string) *MockDependenciesBuilder {
	b.deps.StdinReader = &MockStdinReader{Input: input}
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// errRootRequired is the sentinel error for root privilege check
var errRootRequired = errors.New("this operation requires root privileges. Please run with sudo")
