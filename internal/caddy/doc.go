// Package caddy turns the project registry into live Caddy configuration.
//
// The pipeline is one-directional: a registry change produces a
// per-project fragment, the aggregator rewrites the top-level Caddyfile
// that imports every fragment, the validator gates the result, and the
// reload orchestrator hands it to the running proxy.
//
// # Layout on disk
//
//	<data>/caddy/Caddyfile        top-level config, always fully rewritten
//	<data>/caddy/sites/<id>.caddy domain site blocks, present only with domains
//	<data>/caddy/paths/<id>.caddy /app/<slug> route, one per project
//	<data>/caddy/system.caddy     present only while a system domain is set
//
// The top-level file always imports both fragment-directory globs and is
// the only place the shared :80 site is declared; path fragments are
// directive-only snippets spliced into it, since a second :80 address
// anywhere in the aggregate would be rejected as ambiguous. When the
// system fragment exists it is imported as well, which also decides the
// reported SecurityMode. A top-level file that fails validation is never
// installed over a previously-valid one.
//
// # Reload escalation
//
// Apply tries three control channels in order, once each:
//
//  1. admin-api: POST the raw Caddyfile to the admin endpoint's /load
//  2. service-manager: systemctl reload of the managed unit
//  3. direct-cli: the binary's own reload subcommand
//
// Each tier has its own timeout; a hung channel counts as that tier's
// failure and the next is tried. When all three fail, the per-tier
// diagnostics come back in a ReloadError.
//
// # Concurrency
//
// Service serializes every regenerate+validate+apply sequence behind one
// mutex. Fragment writes for different projects never share a file, so
// concurrent registry mutations interleave safely at the fragment level;
// the full pipeline is last-writer-wins because each run reads current
// on-disk state.
package caddy
