package caddy

import (
	"strings"
	"testing"

	"github.com/hostbay/caddex/internal/builds"
	"github.com/hostbay/caddex/internal/registry"
	"github.com/hostbay/caddex/internal/template"
)

func newTestGenerator(t *testing.T, detector builds.Detector) *Generator {
	t.Helper()
	store, err := template.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if detector == nil {
		detector = &builds.MockDetector{}
	}
	return NewGenerator(store, detector)
}

func TestGenerateNoDomains(t *testing.T) {
	gen := newTestGenerator(t, nil)

	p := &registry.Project{
		ID:   "p1",
		Name: "My App_v2",
		Type: registry.TypeServer,
		Port: 3000,
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if frag.Sites != "" {
		t.Errorf("no domains must produce no site blocks:\n%s", frag.Sites)
	}
	// Exactly one path-prefix route and nothing else.
	if got := strings.Count(frag.Path, "handle_path"); got != 1 {
		t.Errorf("expected 1 path route, got %d:\n%s", got, frag.Path)
	}
	if !strings.Contains(frag.Path, "handle_path /app/my-app-v2/*") {
		t.Errorf("path route missing slug matcher:\n%s", frag.Path)
	}
	if !strings.Contains(frag.Path, "reverse_proxy 127.0.0.1:3000") {
		t.Errorf("path route missing proxy target:\n%s", frag.Path)
	}
}

func TestGenerateDomainsKeepPathFallback(t *testing.T) {
	gen := newTestGenerator(t, nil)

	p := &registry.Project{
		ID:      "p2",
		Name:    "shop",
		Type:    registry.TypeServer,
		Port:    4000,
		Domains: []string{"shop.example.com", "www.shop.example.com"},
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// One site block per domain plus the unconditional path route.
	for _, domain := range p.Domains {
		if !strings.Contains(frag.Sites, domain+" {") {
			t.Errorf("missing block for domain %s:\n%s", domain, frag.Sites)
		}
	}
	if got := strings.Count(frag.Path, "handle_path"); got != 1 {
		t.Errorf("domains must not suppress the IP fallback, got %d path routes", got)
	}
	if got := strings.Count(frag.Sites+frag.Path, "reverse_proxy 127.0.0.1:4000"); got != 3 {
		t.Errorf("expected 3 proxy targets (2 domains + path), got %d", got)
	}
}

func TestGeneratePathRouteHasNoSiteAddress(t *testing.T) {
	gen := newTestGenerator(t, nil)

	p := &registry.Project{
		ID:   "p1",
		Name: "solo",
		Type: registry.TypeServer,
		Port: 3000,
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Path routes are spliced into the one :80 site declared at the top
	// level. A second :80 address in any fragment would collide there.
	if strings.Contains(frag.Path, ":80") {
		t.Errorf("path route must not declare its own site address:\n%s", frag.Path)
	}
}

func TestGeneratePathRouteRedirectsBarePrefix(t *testing.T) {
	gen := newTestGenerator(t, nil)

	for _, tt := range []struct {
		name    string
		project *registry.Project
	}{
		{
			name: "proxy",
			project: &registry.Project{
				ID:   "p1",
				Name: "My App_v2",
				Type: registry.TypeServer,
				Port: 3000,
			},
		},
		{
			name: "static",
			project: &registry.Project{
				ID:   "p2",
				Name: "My App_v2",
				Type: registry.TypeFiles,
				Dir:  "/srv/assets",
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := gen.Generate(tt.project)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			// The printed project URL has no trailing slash, so the bare
			// prefix must redirect into the wildcard matcher.
			if !strings.Contains(frag.Path, "redir /app/my-app-v2 /app/my-app-v2/ 308") {
				t.Errorf("bare prefix not redirected:\n%s", frag.Path)
			}
		})
	}
}

func TestGenerateStaticUsesDetectedOutput(t *testing.T) {
	detector := &builds.MockDetector{Path: "/srv/app/dist"}
	gen := newTestGenerator(t, detector)

	p := &registry.Project{
		ID:      "p3",
		Name:    "landing",
		Type:    registry.TypeStatic,
		Dir:     "/srv/app",
		Domains: []string{"landing.example.com"},
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(frag.Sites, "root * /srv/app/dist") {
		t.Errorf("expected detected build output as root:\n%s", frag.Sites)
	}
	if !strings.Contains(frag.Path, "try_files {path} /index.html") {
		t.Errorf("static routes must fall back to index for client-side routing:\n%s", frag.Path)
	}
	if len(detector.Calls) != 1 || detector.Calls[0].ProjectDir != "/srv/app" {
		t.Errorf("detector not consulted correctly: %+v", detector.Calls)
	}
}

func TestGenerateStaticFallsBackToProjectRoot(t *testing.T) {
	gen := newTestGenerator(t, &builds.MockDetector{Path: ""})

	p := &registry.Project{
		ID:   "p4",
		Name: "docs",
		Type: registry.TypeStatic,
		Dir:  "/srv/docs",
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(frag.Path, "root * /srv/docs") {
		t.Errorf("expected project root fallback:\n%s", frag.Path)
	}
}

func TestGenerateServeDirOverride(t *testing.T) {
	detector := &builds.MockDetector{Path: "/srv/app/dist"}
	gen := newTestGenerator(t, detector)

	// A server-type project with an explicit serve directory is served
	// statically from that directory.
	p := &registry.Project{
		ID:       "p5",
		Name:     "exported",
		Type:     registry.TypeServer,
		Port:     3000,
		Dir:      "/srv/exported",
		ServeDir: "/srv/exported/output",
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(frag.Path, "root * /srv/exported/output") {
		t.Errorf("expected serve dir override:\n%s", frag.Path)
	}
	if strings.Contains(frag.Path, "reverse_proxy") {
		t.Errorf("override must force static serving:\n%s", frag.Path)
	}
	if len(detector.Calls) != 0 {
		t.Errorf("detector must not be consulted when override is set: %+v", detector.Calls)
	}
}

func TestGenerateFilesTypeServesProjectRoot(t *testing.T) {
	detector := &builds.MockDetector{Path: "/never/used"}
	gen := newTestGenerator(t, detector)

	p := &registry.Project{
		ID:   "p6",
		Name: "assets",
		Type: registry.TypeFiles,
		Dir:  "/srv/assets",
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(frag.Path, "root * /srv/assets") {
		t.Errorf("files type must serve the project root unchanged:\n%s", frag.Path)
	}
	if len(detector.Calls) != 0 {
		t.Errorf("detector must not be consulted for files type: %+v", detector.Calls)
	}
}

func TestGenerateFragmentFormatting(t *testing.T) {
	gen := newTestGenerator(t, nil)

	p := &registry.Project{
		ID:      "p7",
		Name:    "api",
		Type:    registry.TypeCustom,
		Port:    9090,
		Domains: []string{"api.example.com", "www.api.example.com"},
	}

	frag, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(frag.Sites, "}\n\nwww.api.example.com {") {
		t.Errorf("domain blocks not separated by a blank line:\n%s", frag.Sites)
	}
	for name, content := range map[string]string{"sites": frag.Sites, "path": frag.Path} {
		if !strings.HasSuffix(content, "}\n") {
			t.Errorf("%s fragment should end with a single newline:\n%q", name, content)
		}
	}
}
