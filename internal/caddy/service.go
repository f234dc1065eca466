package caddy

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hostbay/caddex/internal/builds"
	"github.com/hostbay/caddex/internal/config"
	"github.com/hostbay/caddex/internal/errors"
	"github.com/hostbay/caddex/internal/executor"
	"github.com/hostbay/caddex/internal/logger"
	"github.com/hostbay/caddex/internal/registry"
	"github.com/hostbay/caddex/internal/template"
)

// SecurityMode describes how the control plane itself is reachable.
type SecurityMode string

// Security modes. The mode is derived from the system fragment file's
// existence, never stored redundantly.
const (
	SecurityModeIPHTTP      SecurityMode = "ip-http"
	SecurityModeDomainHTTPS SecurityMode = "domain-https"
)

// Status reports whether the proxy binary is installed and its process
// reachable.
type Status struct {
	Installed bool `json:"installed"`
	Running   bool `json:"running"`
}

// Service is the proxy configuration pipeline: fragment generation,
// top-level aggregation, validation, and reload. A single mutex
// serializes every regenerate+apply sequence so at most one reload
// pipeline is in flight at a time; a second trigger queues on the lock
// and re-reads current on-disk state when it runs.
type Service struct {
	mu           sync.Mutex
	paths        Paths
	store        *template.Store
	generator    *Generator
	aggregator   *Aggregator
	orchestrator *Orchestrator
	runner       executor.CommandRunner
	client       *http.Client
	caddyBin     string
	serviceName  string
	adminAddress string
	apiPort      int
	timeout      time.Duration
}

// NewService wires the pipeline from tool configuration. The runner and
// client parameters exist for tests; pass nil to use the real ones.
func NewService(cfg *config.Config, store *template.Store, detector builds.Detector, runner executor.CommandRunner, client *http.Client) *Service {
	if runner == nil {
		runner = executor.NewSystemRunner()
	}
	if client == nil {
		client = &http.Client{}
	}

	paths := Paths{DataDir: cfg.DataDir}
	validator := NewValidator(runner, cfg.CaddyBin, paths)
	aggregator := NewAggregator(store, paths, cfg.AdminAddress)

	return &Service{
		paths:        paths,
		store:        store,
		generator:    NewGenerator(store, detector),
		aggregator:   aggregator,
		orchestrator: NewOrchestrator(validator, aggregator, runner, client, cfg.AdminAddress, cfg.CaddyBin, cfg.ServiceName, paths, time.Duration(cfg.CommandTimeout)*time.Second),
		runner:       runner,
		client:       client,
		caddyBin:     cfg.CaddyBin,
		serviceName:  cfg.ServiceName,
		adminAddress: cfg.AdminAddress,
		apiPort:      cfg.APIPort,
		timeout:      time.Duration(cfg.CommandTimeout) * time.Second,
	}
}

// Paths returns the generated-config locations.
func (s *Service) Paths() Paths {
	return s.paths
}

// Initialize re-establishes the on-disk invariant from the registry:
// exactly one fragment per registered project and none for anything else,
// then rewrites the top level, validates, and applies.
func (s *Service) Initialize(ctx context.Context, projects []*registry.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registered := make(map[string]bool, len(projects))
	for _, p := range projects {
		if err := s.writeFragment(p); err != nil {
			return err
		}
		registered[p.ID] = true
	}

	// Stale fragments belong to deleted projects; best-effort cleanup.
	for _, dir := range []string{s.paths.SitesDir(), s.paths.PathsDir()} {
		if err := s.removeStaleFragments(dir, registered); err != nil {
			return err
		}
	}

	return s.regenerateAndApply(ctx)
}

// UpdateProjectConfig rewrites the project's fragment and applies.
func (s *Service) UpdateProjectConfig(ctx context.Context, p *registry.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFragment(p); err != nil {
		return err
	}
	return s.regenerateAndApply(ctx)
}

// DeleteProjectConfig removes the project's fragments and applies.
// Missing fragments are a no-op. A failed deletion is logged but does not
// abort, so proxy-config cleanup never blocks a broader project delete.
func (s *Service) DeleteProjectConfig(ctx context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fragment := range []string{s.paths.Fragment(projectID), s.paths.PathFragment(projectID)} {
		if err := os.Remove(fragment); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove fragment %s: %v", fragment, err)
		}
	}
	return s.regenerateAndApply(ctx)
}

// UpdateSystemConfig writes the system fragment for the given domain,
// switching the control plane to domain-https mode, and applies.
func (s *Service) UpdateSystemConfig(ctx context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.store.Render(template.NameSystem, map[string]string{
		"domain":   domain,
		"api_port": strconv.Itoa(s.apiPort),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.paths.CaddyDir(), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to create config directory "+s.paths.CaddyDir(), err)
	}
	if err := os.WriteFile(s.paths.SystemFragment(), []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to write system fragment "+s.paths.SystemFragment(), err)
	}

	return s.regenerateAndApply(ctx)
}

// RemoveSystemConfig deletes the system fragment, dropping the control
// plane back to ip-http mode, and applies. Missing fragment is a no-op.
func (s *Service) RemoveSystemConfig(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.paths.SystemFragment()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeConfig, "failed to remove system fragment "+s.paths.SystemFragment(), err)
	}
	return s.regenerateAndApply(ctx)
}

// HasSystemDomain reports whether the control plane is exposed under a
// registered domain. The system fragment file's existence is the sole
// source of truth.
func (s *Service) HasSystemDomain() bool {
	return fileExists(s.paths.SystemFragment())
}

// SecurityMode derives the current mode from the system fragment.
func (s *Service) SecurityMode() SecurityMode {
	if s.HasSystemDomain() {
		return SecurityModeDomainHTTPS
	}
	return SecurityModeIPHTTP
}

// CheckStatus reports whether the proxy binary is installed and whether a
// proxy process is answering.
func (s *Service) CheckStatus(ctx context.Context) Status {
	status := Status{}

	if _, err := s.runner.LookPath(s.caddyBin); err == nil {
		status.Installed = true
	}

	status.Running = s.adminReachable(ctx)
	if !status.Running {
		runCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if _, err := s.runner.Run(runCtx, "systemctl", "is-active", "--quiet", s.serviceName); err == nil {
			status.Running = true
		}
	}

	return status
}

// adminReachable probes the proxy's admin API for liveness.
func (s *Service) adminReachable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, s.adminAddress+"/config/", nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ProjectURL returns the address a project is reachable at: its first
// custom domain over HTTPS, or the /app/<slug> path on the server IP.
func (s *Service) ProjectURL(p *registry.Project, serverIP string) string {
	if len(p.Domains) > 0 {
		return "https://" + p.Domains[0]
	}
	if serverIP == "" {
		serverIP = "localhost"
	}
	return "http://" + serverIP + "/app/" + registry.Slug(p.Name)
}

// Validate runs the pre-flight check against the current top-level file.
func (s *Service) Validate(ctx context.Context) (bool, string) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orchestrator.validator.Validate(runCtx)
}

// Apply runs the reload pipeline without touching any fragment.
func (s *Service) Apply(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orchestrator.Apply(ctx)
}

// writeFragment renders and installs one project's fragments. The path
// route is always written; the sites fragment only exists while the
// project has custom domains, so a domain removal must also drop it.
func (s *Service) writeFragment(p *registry.Project) error {
	frag, err := s.generator.Generate(p)
	if err != nil {
		return err
	}

	for _, dir := range []string{s.paths.SitesDir(), s.paths.PathsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, "failed to create fragment directory "+dir, err)
		}
	}

	pathFragment := s.paths.PathFragment(p.ID)
	if err := os.WriteFile(pathFragment, []byte(frag.Path), 0644); err != nil {
		return errors.WrapProject(errors.ErrCodeConfig, p.Name, err)
	}

	sitesFragment := s.paths.Fragment(p.ID)
	if frag.Sites == "" {
		if err := os.Remove(sitesFragment); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove fragment %s: %v", sitesFragment, err)
		}
	} else if err := os.WriteFile(sitesFragment, []byte(frag.Sites), 0644); err != nil {
		return errors.WrapProject(errors.ErrCodeConfig, p.Name, err)
	}

	logger.Debug("wrote fragments for project %s", p.Name)
	return nil
}

// removeStaleFragments deletes .caddy files in dir that belong to no
// registered project.
func (s *Service) removeStaleFragments(dir string, registered map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeConfig, "failed to read fragment directory "+dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".caddy") {
			continue
		}
		if registered[strings.TrimSuffix(name, ".caddy")] {
			continue
		}
		stale := filepath.Join(dir, name)
		if err := os.Remove(stale); err != nil {
			logger.Warn("failed to remove stale fragment %s: %v", stale, err)
		} else {
			logger.Info("removed stale fragment %s", stale)
		}
	}
	return nil
}

// regenerateAndApply rewrites the top level then runs the reload
// pipeline. Callers must hold the mutex.
func (s *Service) regenerateAndApply(ctx context.Context) error {
	if err := s.aggregator.RegenerateTopLevel(); err != nil {
		return err
	}
	return s.orchestrator.Apply(ctx)
}
