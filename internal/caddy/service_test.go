package caddy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/hostbay/caddex/internal/builds"
	"github.com/hostbay/caddex/internal/config"
	"github.com/hostbay/caddex/internal/executor"
	"github.com/hostbay/caddex/internal/registry"
	"github.com/hostbay/caddex/internal/template"
)

// newTestService builds a Service with a passing validator and a fake
// admin endpoint that accepts every load request.
func newTestService(t *testing.T) (*Service, *executor.MockRunner) {
	t.Helper()

	store, err := template.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	runner := &executor.MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (executor.Result, error) {
			if name == "caddy" && len(args) > 0 && args[0] == "validate" {
				return executor.Result{Stdout: []byte("Valid configuration\n")}, nil
			}
			return executor.Result{}, fmt.Errorf("unexpected command %s %v", name, args)
		},
	}

	cfg := &config.Config{
		DataDir:        t.TempDir(),
		CaddyBin:       "caddy",
		AdminAddress:   srv.URL,
		ServiceName:    "caddy",
		APIPort:        8080,
		CommandTimeout: 5,
	}

	return NewService(cfg, store, &builds.MockDetector{}, runner, srv.Client()), runner
}

func TestServiceUpdateProjectConfig(t *testing.T) {
	svc, _ := newTestService(t)

	p := &registry.Project{
		ID:      "p1",
		Name:    "blog",
		Type:    registry.TypeServer,
		Port:    3000,
		Domains: []string{"blog.example.com"},
	}

	if err := svc.UpdateProjectConfig(context.Background(), p); err != nil {
		t.Fatalf("UpdateProjectConfig failed: %v", err)
	}

	data, err := os.ReadFile(svc.Paths().Fragment("p1"))
	if err != nil {
		t.Fatalf("sites fragment not written: %v", err)
	}
	if !bytes.Contains(data, []byte("blog.example.com")) {
		t.Errorf("sites fragment missing domain block:\n%s", data)
	}

	route, err := os.ReadFile(svc.Paths().PathFragment("p1"))
	if err != nil {
		t.Fatalf("path fragment not written: %v", err)
	}
	if !bytes.Contains(route, []byte("handle_path /app/blog/*")) {
		t.Errorf("path fragment missing slug route:\n%s", route)
	}

	if _, err := os.Stat(svc.Paths().TopLevel()); err != nil {
		t.Errorf("top-level config not written: %v", err)
	}

	// Removing the last domain must also remove the sites fragment,
	// otherwise the stale domain block keeps being served.
	p.Domains = nil
	if err := svc.UpdateProjectConfig(context.Background(), p); err != nil {
		t.Fatalf("UpdateProjectConfig failed: %v", err)
	}
	if fileExists(svc.Paths().Fragment("p1")) {
		t.Error("sites fragment not removed after last domain dropped")
	}
	if !fileExists(svc.Paths().PathFragment("p1")) {
		t.Error("path fragment must survive domain removal")
	}
}

func TestServiceSingleSharedHTTPSite(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Two projects without domains. Each contributes a path route; only
	// the top level may declare the :80 site, or the aggregate would
	// define the same address twice and fail to adapt.
	projects := []*registry.Project{
		{ID: "p1", Name: "blog", Type: registry.TypeServer, Port: 3000},
		{ID: "p2", Name: "shop", Type: registry.TypeServer, Port: 4000},
	}
	if err := svc.Initialize(ctx, projects); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var combined bytes.Buffer
	for _, path := range []string{
		svc.Paths().TopLevel(),
		svc.Paths().PathFragment("p1"),
		svc.Paths().PathFragment("p2"),
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s failed: %v", path, err)
		}
		combined.Write(data)
	}

	if got := bytes.Count(combined.Bytes(), []byte(":80")); got != 1 {
		t.Errorf("aggregate config must define :80 exactly once, got %d:\n%s", got, combined.String())
	}
	for _, slug := range []string{"blog", "shop"} {
		if !bytes.Contains(combined.Bytes(), []byte("handle_path /app/"+slug+"/*")) {
			t.Errorf("aggregate missing route for %s:\n%s", slug, combined.String())
		}
	}
}

func TestServiceDeleteProjectConfig(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := &registry.Project{ID: "p1", Name: "blog", Type: registry.TypeServer, Port: 3000, Domains: []string{"blog.example.com"}}
	if err := svc.UpdateProjectConfig(ctx, p); err != nil {
		t.Fatalf("UpdateProjectConfig failed: %v", err)
	}

	if err := svc.DeleteProjectConfig(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProjectConfig failed: %v", err)
	}
	if fileExists(svc.Paths().Fragment("p1")) {
		t.Error("sites fragment not removed")
	}
	if fileExists(svc.Paths().PathFragment("p1")) {
		t.Error("path fragment not removed")
	}

	// Deleting a project whose fragment does not exist is a no-op.
	if err := svc.DeleteProjectConfig(ctx, "never-existed"); err != nil {
		t.Errorf("delete of missing fragment must not fail: %v", err)
	}
}

func TestServiceSystemDomainRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Initialize(ctx, nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	before, err := os.ReadFile(svc.Paths().TopLevel())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if svc.HasSystemDomain() {
		t.Fatal("system domain should start unset")
	}
	if svc.SecurityMode() != SecurityModeIPHTTP {
		t.Errorf("expected ip-http mode, got %s", svc.SecurityMode())
	}

	if err := svc.UpdateSystemConfig(ctx, "panel.example.com"); err != nil {
		t.Fatalf("UpdateSystemConfig failed: %v", err)
	}

	if !svc.HasSystemDomain() {
		t.Error("system domain should be set")
	}
	if svc.SecurityMode() != SecurityModeDomainHTTPS {
		t.Errorf("expected domain-https mode, got %s", svc.SecurityMode())
	}

	fragment, err := os.ReadFile(svc.Paths().SystemFragment())
	if err != nil {
		t.Fatalf("system fragment not written: %v", err)
	}
	if !bytes.Contains(fragment, []byte("panel.example.com")) {
		t.Errorf("system fragment missing domain:\n%s", fragment)
	}
	if !bytes.Contains(fragment, []byte("127.0.0.1:8080")) {
		t.Errorf("system fragment missing control API port:\n%s", fragment)
	}

	withSystem, err := os.ReadFile(svc.Paths().TopLevel())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Contains(withSystem, []byte("import "+svc.Paths().SystemFragment())) {
		t.Errorf("top level missing system import:\n%s", withSystem)
	}

	if err := svc.RemoveSystemConfig(ctx); err != nil {
		t.Fatalf("RemoveSystemConfig failed: %v", err)
	}

	after, err := os.ReadFile(svc.Paths().TopLevel())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	// The round trip restores the exact previous byte content.
	if !bytes.Equal(before, after) {
		t.Errorf("top level not restored:\nbefore:\n%s\nafter:\n%s", before, after)
	}
	if svc.HasSystemDomain() {
		t.Error("system domain should be unset after removal")
	}

	// Removing again is a no-op.
	if err := svc.RemoveSystemConfig(ctx); err != nil {
		t.Errorf("second removal must not fail: %v", err)
	}
}

func TestServiceInitializeRemovesStaleFragments(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Fragments left behind by a deleted project, in both directories.
	for _, dir := range []string{svc.Paths().SitesDir(), svc.Paths().PathsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
	}
	staleSite := svc.Paths().Fragment("deleted-project")
	if err := os.WriteFile(staleSite, []byte("old.example.com {\n}\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	staleRoute := svc.Paths().PathFragment("deleted-project")
	if err := os.WriteFile(staleRoute, []byte("handle_path /app/old/* {\n}\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	current := &registry.Project{ID: "p1", Name: "blog", Type: registry.TypeServer, Port: 3000}
	if err := svc.Initialize(ctx, []*registry.Project{current}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if fileExists(staleSite) {
		t.Error("stale sites fragment not removed")
	}
	if fileExists(staleRoute) {
		t.Error("stale path fragment not removed")
	}
	if !fileExists(svc.Paths().PathFragment("p1")) {
		t.Error("registered project's path fragment missing")
	}
}

func TestServiceCheckStatus(t *testing.T) {
	t.Run("installed and running via admin API", func(t *testing.T) {
		svc, _ := newTestService(t)

		status := svc.CheckStatus(context.Background())
		if !status.Installed {
			t.Error("expected installed (mock LookPath resolves)")
		}
		if !status.Running {
			t.Error("expected running (admin endpoint answers)")
		}
	})

	t.Run("not installed", func(t *testing.T) {
		svc, runner := newTestService(t)
		runner.LookPathFunc = func(file string) (string, error) {
			return "", fmt.Errorf("not found")
		}

		status := svc.CheckStatus(context.Background())
		if status.Installed {
			t.Error("expected not installed")
		}
	})

	t.Run("falls back to service manager probe", func(t *testing.T) {
		store, err := template.NewStore()
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		runner := &executor.MockRunner{
			RunFunc: func(ctx context.Context, name string, args ...string) (executor.Result, error) {
				if name == "systemctl" && len(args) > 0 && args[0] == "is-active" {
					return executor.Result{}, nil
				}
				return executor.Result{}, fmt.Errorf("unexpected command %s %v", name, args)
			},
		}
		cfg := &config.Config{
			DataDir:        t.TempDir(),
			CaddyBin:       "caddy",
			AdminAddress:   "http://127.0.0.1:1", // nothing listens here
			ServiceName:    "caddy",
			APIPort:        8080,
			CommandTimeout: 5,
		}
		svc := NewService(cfg, store, &builds.MockDetector{}, runner, nil)

		status := svc.CheckStatus(context.Background())
		if !status.Running {
			t.Error("expected running via systemctl is-active fallback")
		}
	})
}

func TestServiceProjectURL(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		project  *registry.Project
		serverIP string
		expected string
	}{
		{
			name:     "first domain wins",
			project:  &registry.Project{Name: "shop", Domains: []string{"shop.example.com", "www.shop.example.com"}},
			serverIP: "203.0.113.10",
			expected: "https://shop.example.com",
		},
		{
			name:     "path fallback on bare IP",
			project:  &registry.Project{Name: "My App_v2"},
			serverIP: "203.0.113.10",
			expected: "http://203.0.113.10/app/my-app-v2",
		},
		{
			name:     "localhost when no IP known",
			project:  &registry.Project{Name: "blog"},
			expected: "http://localhost/app/blog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ProjectURL(tt.project, tt.serverIP); got != tt.expected {
				t.Errorf("ProjectURL() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestServiceProjectURLMatchesGeneratedRoute(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := &registry.Project{ID: "p1", Name: "My App_v2", Type: registry.TypeServer, Port: 3000}
	if err := svc.UpdateProjectConfig(ctx, p); err != nil {
		t.Fatalf("UpdateProjectConfig failed: %v", err)
	}

	url := svc.ProjectURL(p, "203.0.113.10")
	urlPath := strings.TrimPrefix(url, "http://203.0.113.10")

	route, err := os.ReadFile(svc.Paths().PathFragment("p1"))
	if err != nil {
		t.Fatalf("path fragment not written: %v", err)
	}

	// handle_path matches only under the trailing slash, so the exact
	// path the URL prints must be redirected into it.
	if !bytes.Contains(route, []byte("redir "+urlPath+" "+urlPath+"/ 308")) {
		t.Errorf("printed URL path %s is not redirected by the route:\n%s", urlPath, route)
	}
	if !bytes.Contains(route, []byte("handle_path "+urlPath+"/*")) {
		t.Errorf("printed URL path %s has no matching route:\n%s", urlPath, route)
	}
}
