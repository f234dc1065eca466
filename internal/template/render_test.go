package template

import (
	"strings"
	"testing"

	"github.com/hostbay/caddex/internal/errors"
)

func TestStoreRender(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	testCases := []struct {
		name     string
		template string
		vars     map[string]string
		contains []string
	}{
		{
			name:     "domain proxy",
			template: NameDomainProxy,
			vars: map[string]string{
				"domain": "example.com",
				"port":   "3000",
			},
			contains: []string{
				"example.com {",
				"reverse_proxy 127.0.0.1:3000",
				"header_up Host {host}",
				"header_up Upgrade {http.request.header.Upgrade}",
			},
		},
		{
			name:     "domain static",
			template: NameDomainStatic,
			vars: map[string]string{
				"domain":     "static.example.com",
				"serve_path": "/srv/app/dist",
			},
			contains: []string{
				"static.example.com {",
				"root * /srv/app/dist",
				"try_files {path} /index.html",
				"file_server",
			},
		},
		{
			name:     "path proxy",
			template: NamePathProxy,
			vars: map[string]string{
				"slug": "my-app",
				"port": "4000",
			},
			contains: []string{
				"redir /app/my-app /app/my-app/ 308",
				"handle_path /app/my-app/*",
				"reverse_proxy 127.0.0.1:4000",
			},
		},
		{
			name:     "main",
			template: NameMain,
			vars: map[string]string{
				"admin_listen": "localhost:2019",
				"sites_dir":    "/var/lib/caddex/caddy/sites",
				"paths_dir":    "/var/lib/caddex/caddy/paths",
			},
			contains: []string{
				"admin localhost:2019",
				"import /var/lib/caddex/caddy/sites/*.caddy",
				":80 {\n\timport /var/lib/caddex/caddy/paths/*.caddy\n}",
			},
		},
		{
			name:     "main with system import",
			template: NameMainSystem,
			vars: map[string]string{
				"admin_listen":    "localhost:2019",
				"sites_dir":       "/var/lib/caddex/caddy/sites",
				"paths_dir":       "/var/lib/caddex/caddy/paths",
				"system_fragment": "/var/lib/caddex/caddy/system.caddy",
			},
			contains: []string{
				"import /var/lib/caddex/caddy/system.caddy",
				"import /var/lib/caddex/caddy/sites/*.caddy",
				"import /var/lib/caddex/caddy/paths/*.caddy",
			},
		},
		{
			name:     "system",
			template: NameSystem,
			vars: map[string]string{
				"domain":   "panel.example.com",
				"api_port": "8080",
			},
			contains: []string{
				"panel.example.com {",
				"reverse_proxy 127.0.0.1:8080",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := store.Render(tc.template, tc.vars)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(result, want) {
					t.Errorf("rendered output missing %q:\n%s", want, result)
				}
			}
			if strings.Contains(result, PlaceholderWebSocket) {
				t.Error("websocket placeholder not expanded")
			}
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	_, err = store.Render("no-such-template", nil)
	if !errors.Is(err, errors.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRenderUnmatchedPlaceholderKeptVerbatim(t *testing.T) {
	store := NewStoreFromMap(map[string]string{
		"site": "{{domain}} {\n\troot * {{serve_path}}\n}\n",
	})

	result, err := store.Render("site", map[string]string{"domain": "example.com"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(result, "example.com {") {
		t.Error("matched placeholder not interpolated")
	}
	// The unresolved variable stays visible as a debugging aid.
	if !strings.Contains(result, "{{serve_path}}") {
		t.Errorf("unmatched placeholder should stay verbatim:\n%s", result)
	}
}

func TestWebSocketSnippetIndentation(t *testing.T) {
	testCases := []struct {
		name   string
		indent string
	}{
		{"four spaces", "    "},
		{"two tabs", "\t\t"},
		{"no indent", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStoreFromMap(map[string]string{
				"block": "proxy {\n" + tc.indent + PlaceholderWebSocket + "\n}",
			})

			result, err := store.Render("block", nil)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			snippetLines := strings.Split(webSocketSnippet, "\n")
			resultLines := strings.Split(result, "\n")
			// Lines 1..n of the result hold the spliced snippet.
			if len(resultLines) < len(snippetLines)+2 {
				t.Fatalf("unexpected line count: %d", len(resultLines))
			}
			for i, snippetLine := range snippetLines {
				got := resultLines[1+i]
				want := tc.indent + snippetLine
				if got != want {
					t.Errorf("line %d = %q, want %q", 1+i, got, want)
				}
			}
		})
	}
}

func TestStoreNames(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	names := store.Names()
	want := []string{
		NameDomainProxy, NameDomainStatic, NameMain, NameMainSystem,
		NamePathProxy, NamePathStatic, NameSystem,
	}
	if len(names) != len(want) {
		t.Fatalf("expected %d templates, got %d: %v", len(want), len(names), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], name)
		}
	}
}
