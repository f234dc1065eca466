package caddy

import (
	"path/filepath"
	"strings"
)

// Paths derives every generated-config location from the data directory.
//
// Layout:
//
//	<data>/caddy/Caddyfile        top-level config loaded by the proxy
//	<data>/caddy/sites/<id>.caddy per-project domain site blocks
//	<data>/caddy/paths/<id>.caddy per-project /app/<slug> path routes,
//	                              spliced into the single :80 site
//	<data>/caddy/system.caddy     control-plane fragment (when a system domain is set)
type Paths struct {
	DataDir string
}

// CaddyDir returns the directory holding all generated proxy config.
func (p Paths) CaddyDir() string {
	return filepath.Join(p.DataDir, "caddy")
}

// TopLevel returns the path of the top-level config file.
func (p Paths) TopLevel() string {
	return filepath.Join(p.CaddyDir(), "Caddyfile")
}

// SitesDir returns the per-project fragments directory.
func (p Paths) SitesDir() string {
	return filepath.Join(p.CaddyDir(), "sites")
}

// Fragment returns the domain-fragment path owned by the given project.
func (p Paths) Fragment(projectID string) string {
	return filepath.Join(p.SitesDir(), projectID+".caddy")
}

// PathsDir returns the directory of per-project path-route snippets.
// Its contents are imported inside the shared :80 site, so they hold
// directives only, never site blocks of their own.
func (p Paths) PathsDir() string {
	return filepath.Join(p.CaddyDir(), "paths")
}

// PathFragment returns the path-route snippet owned by the given project.
func (p Paths) PathFragment(projectID string) string {
	return filepath.Join(p.PathsDir(), projectID+".caddy")
}

// SystemFragment returns the path of the system fragment.
func (p Paths) SystemFragment() string {
	return filepath.Join(p.CaddyDir(), "system.caddy")
}

// adminListen strips the URL scheme from an admin address, yielding the
// host:port form the admin directive expects.
func adminListen(adminAddress string) string {
	if i := strings.Index(adminAddress, "://"); i >= 0 {
		return adminAddress[i+3:]
	}
	return adminAddress
}
