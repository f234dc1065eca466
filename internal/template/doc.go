// Package template provides rendering of Caddy configuration fragments
// from embedded text templates.
//
// Templates are plain text with {{key}} placeholders and are embedded in
// the binary using go:embed. The Store is built once at startup and holds
// the templates as an immutable named mapping.
//
// # Template Organization
//
// Templates live under caddy/ and are named by file:
//
//	caddy/domain-static.tmpl  - custom domain site block, files served from disk
//	caddy/domain-proxy.tmpl   - custom domain site block, proxied to a local port
//	caddy/path-static.tmpl    - /app/<slug> route directives, files served from disk
//	caddy/path-proxy.tmpl     - /app/<slug> route directives, proxied to a local port
//	caddy/main.tmpl           - top-level config importing both fragment directories
//	caddy/main-system.tmpl    - top-level config also importing the system fragment
//	caddy/system.tmpl         - control-plane UI/API exposed under a domain
//
// The path templates emit directives without a site address; the top
// level declares the single :80 site and imports them into it.
//
// # Rendering
//
//	store, err := template.NewStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := store.Render(template.NameDomainProxy, map[string]string{
//	    "domain": "example.com",
//	    "port":   "3000",
//	})
//
// Interpolation is literal string replacement, not text/template: an
// unmatched {{key}} stays verbatim in the output so a missing variable is
// visible in the generated file rather than silently dropped. Callers must
// not rely on unresolved placeholders being treated as empty strings.
//
// # Websocket Headers
//
// The placeholder {{websocket_headers}} expands to a fixed multi-line
// header_up block before generic interpolation runs. Each continuation
// line inherits the indentation of the placeholder's line, so the block
// stays aligned inside nested proxy blocks.
//
// # Adding New Templates
//
// Create the .tmpl file under caddy/ and rebuild; the store picks it up
// by file name. Add a Name* constant for it so callers avoid string
// literals.
package template
