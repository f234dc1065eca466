// Package registry manages the persistent store of registered projects.
//
// Every project hosted by the control plane has one record here: its
// identity, type, listening port for proxied types, filesystem locations
// for static types, and any custom domains. The proxy pipeline reads these
// records to synthesize per-project configuration fragments; it never
// mutates them.
//
// The registry is stored as YAML at ~/.config/caddex/projects.yaml, keyed
// by project ID. IDs are UUIDs minted at registration time with NewID.
//
// # Project Types
//
// Four project types are supported:
//   - static: a browser bundle compiled from source; served from its
//     detected build output directory
//   - server: a server-rendered app; proxied to its listening port
//   - custom: a custom server; proxied to its listening port
//   - files: plain static files; served from the project root unchanged
//
// Use the type constants (TypeStatic, TypeServer, etc.) instead of string
// literals.
//
// # Slugs
//
// Slug normalizes a project name for path-based routing: "My App_v2"
// becomes "my-app-v2". Slugs are not guaranteed unique across projects;
// callers that care should warn on collision.
package registry
