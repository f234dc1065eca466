package caddy

import (
	"os"
	"strings"

	"github.com/hostbay/caddex/internal/errors"
	"github.com/hostbay/caddex/internal/logger"
	"github.com/hostbay/caddex/internal/template"
)

// Aggregator owns the top-level config file. It always rewrites the whole
// file from a template so the output is deterministic from current state
// alone, and it asserts both import directives after every write because
// a top-level file missing either would silently serve nothing for some
// or all projects.
type Aggregator struct {
	store       *template.Store
	paths       Paths
	adminListen string
}

// NewAggregator creates an Aggregator writing under the given paths.
func NewAggregator(store *template.Store, paths Paths, adminAddress string) *Aggregator {
	return &Aggregator{
		store:       store,
		paths:       paths,
		adminListen: adminListen(adminAddress),
	}
}

// importDirectives returns the directives the top-level file must
// contain: the domain-fragments glob and the path-routes glob that feeds
// the single :80 site.
func (a *Aggregator) importDirectives() []string {
	return []string{
		"import " + a.paths.SitesDir() + "/*.caddy",
		"import " + a.paths.PathsDir() + "/*.caddy",
	}
}

// RegenerateTopLevel rewrites the entire top-level config. When the system
// fragment file exists, the variant additionally importing it is used;
// selection is driven solely by that file's existence.
func (a *Aggregator) RegenerateTopLevel() error {
	for _, dir := range []string{a.paths.SitesDir(), a.paths.PathsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, "failed to create fragments directory "+dir, err)
		}
	}

	name := template.NameMain
	vars := map[string]string{
		"admin_listen": a.adminListen,
		"sites_dir":    a.paths.SitesDir(),
		"paths_dir":    a.paths.PathsDir(),
	}
	if fileExists(a.paths.SystemFragment()) {
		name = template.NameMainSystem
		vars["system_fragment"] = a.paths.SystemFragment()
	}

	content, err := a.store.Render(name, vars)
	if err != nil {
		return err
	}

	if err := os.WriteFile(a.paths.TopLevel(), []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to write top-level config "+a.paths.TopLevel(), err)
	}

	// Re-read and assert the import directives survived the write.
	ok, err := a.HasImportDirective()
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(errors.ErrCodeConfig, "import directives missing from top-level config", errors.ErrMissingImport)
	}

	logger.Debug("regenerated top-level config %s (template %s)", a.paths.TopLevel(), name)
	return nil
}

// HasImportDirective reports whether the top-level file currently
// contains both fragment-directory imports.
func (a *Aggregator) HasImportDirective() (bool, error) {
	data, err := os.ReadFile(a.paths.TopLevel())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(errors.ErrCodeConfig, "failed to read top-level config "+a.paths.TopLevel(), err)
	}
	content := string(data)
	for _, directive := range a.importDirectives() {
		if !strings.Contains(content, directive) {
			return false, nil
		}
	}
	return true, nil
}

// fileExists checks if a path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
