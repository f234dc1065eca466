package caddy

import (
	"strconv"
	"strings"

	"github.com/hostbay/caddex/internal/builds"
	"github.com/hostbay/caddex/internal/logger"
	"github.com/hostbay/caddex/internal/registry"
	"github.com/hostbay/caddex/internal/template"
)

// Generator synthesizes the configuration fragment owned by one project.
type Generator struct {
	store    *template.Store
	detector builds.Detector
}

// NewGenerator creates a Generator rendering from the given store and
// resolving build output directories through the given detector.
func NewGenerator(store *template.Store, detector builds.Detector) *Generator {
	return &Generator{store: store, detector: detector}
}

// Fragment is the generated config owned by one project. Sites holds one
// site block per custom domain and is empty without domains. Path holds
// the /app/<slug> route directives spliced into the shared :80 site, so
// the project stays reachable by bare IP even with zero domains
// configured. Path routes carry no site address of their own; emitting
// :80 per project would define the same address once per fragment and
// the config would stop adapting.
type Fragment struct {
	Sites string
	Path  string
}

// Generate produces both fragment pieces for a project.
func (g *Generator) Generate(p *registry.Project) (Fragment, error) {
	static := p.IsStatic()
	servePath := ""
	if static {
		servePath = g.resolveServePath(p)
	}

	var blocks []string

	for _, domain := range p.Domains {
		var block string
		var err error
		if static {
			block, err = g.store.Render(template.NameDomainStatic, map[string]string{
				"domain":     domain,
				"serve_path": servePath,
			})
		} else {
			block, err = g.store.Render(template.NameDomainProxy, map[string]string{
				"domain": domain,
				"port":   strconv.Itoa(p.Port),
			})
		}
		if err != nil {
			return Fragment{}, err
		}
		blocks = append(blocks, strings.TrimRight(block, "\n"))
	}

	slug := registry.Slug(p.Name)
	var pathRoute string
	var err error
	if static {
		pathRoute, err = g.store.Render(template.NamePathStatic, map[string]string{
			"slug":       slug,
			"serve_path": servePath,
		})
	} else {
		pathRoute, err = g.store.Render(template.NamePathProxy, map[string]string{
			"slug": slug,
			"port": strconv.Itoa(p.Port),
		})
	}
	if err != nil {
		return Fragment{}, err
	}

	frag := Fragment{
		Path: strings.TrimRight(pathRoute, "\n") + "\n",
	}
	if len(blocks) > 0 {
		frag.Sites = strings.Join(blocks, "\n\n") + "\n"
	}
	return frag, nil
}

// resolveServePath picks the directory a static project is served from.
func (g *Generator) resolveServePath(p *registry.Project) string {
	if p.ServeDir != "" {
		return p.ServeDir
	}
	if p.Type == registry.TypeFiles {
		return p.Dir
	}
	if detected := g.detector.Detect(p.Dir, p.Type); detected != "" {
		return detected
	}
	// No recognizable build output; serve the project root so the
	// fragment still routes somewhere visible to the operator.
	logger.Warn("no build output found for project %s, serving project root %s", p.Name, p.Dir)
	return p.Dir
}
