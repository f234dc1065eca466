package template

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed caddy/*.tmpl
var caddyTemplates embed.FS

// Template names available in the default store.
const (
	NameDomainStatic = "domain-static" // custom domain serving files from disk
	NameDomainProxy  = "domain-proxy"  // custom domain proxied to a local port
	NamePathStatic   = "path-static"   // /app/<slug> path serving files from disk
	NamePathProxy    = "path-proxy"    // /app/<slug> path proxied to a local port
	NameMain         = "main"          // top-level config importing project fragments
	NameMainSystem   = "main-system"   // top-level config additionally importing the system fragment
	NameSystem       = "system"        // system fragment exposing the control plane under a domain
)

// Store holds named configuration-fragment templates as immutable text.
// It is constructed once at startup and passed to every component that
// renders configuration.
type Store struct {
	templates map[string]string
}

// NewStore builds a Store from the embedded template files. The name of
// each template is its file name without the .tmpl extension.
func NewStore() (*Store, error) {
	templates := make(map[string]string)

	err := fs.WalkDir(caddyTemplates, "caddy", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		content, err := caddyTemplates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded template %s: %w", path, err)
		}
		name := strings.TrimSuffix(d.Name(), ".tmpl")
		templates[name] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Store{templates: templates}, nil
}

// NewStoreFromMap builds a Store from an explicit mapping (for testing).
func NewStoreFromMap(templates map[string]string) *Store {
	copied := make(map[string]string, len(templates))
	for name, content := range templates {
		copied[name] = content
	}
	return &Store{templates: copied}
}

// Names returns the names of all templates in the store, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
