package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hostbay/caddex/internal/output"
	"github.com/hostbay/caddex/internal/registry"
	"github.com/spf13/cobra"
)

var (
	addType     string
	addPort     int
	addDir      string
	addServeDir string
	addDomains  []string
	noReload    bool
	forceRemove bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage deployed projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a project and generate its proxy config",
	Long: `Register a project and write its Caddy config fragment.

Examples:
  caddex project add blog --type static --dir /srv/blog
  caddex project add api --type server --port 3000 --domain api.example.com
  caddex project add docs --type files --dir /srv/docs --no-reload`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectRemoveCmd = &cobra.Command{
	Use:     "remove <name|id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a project and its proxy config",
	Long: `Remove a project from the registry and delete its config fragment.

Examples:
  caddex project remove blog
  caddex project rm blog --force`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectRemove,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all registered projects",
	Long: `List all registered projects.

Examples:
  caddex project list
  caddex project ls --json`,
	RunE: runProjectList,
}

func init() {
	projectAddCmd.Flags().StringVarP(&addType, "type", "t", registry.TypeServer, "Project type (static, server, custom, files)")
	projectAddCmd.Flags().IntVarP(&addPort, "port", "p", 0, "Local port the project listens on (proxied types)")
	projectAddCmd.Flags().StringVarP(&addDir, "dir", "d", "", "Project root directory on disk")
	projectAddCmd.Flags().StringVar(&addServeDir, "serve-dir", "", "Directory to serve, overriding build output detection")
	projectAddCmd.Flags().StringArrayVar(&addDomains, "domain", nil, "Custom domain for the project (repeatable)")
	projectAddCmd.Flags().BoolVar(&noReload, "no-reload", false, "Register only; run 'caddex sync' later to apply")

	projectRemoveCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Force removal without confirmation")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectListCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if registry.Slug(name) == "" {
		return fmt.Errorf("project name %q has no usable characters", name)
	}

	if !registry.IsValidType(addType) {
		return fmt.Errorf("invalid project type %q, must be one of: %s", addType, strings.Join(registry.ValidTypes(), ", "))
	}

	p := &registry.Project{
		ID:        registry.NewID(),
		Name:      name,
		Type:      addType,
		Port:      addPort,
		Dir:       addDir,
		ServeDir:  addServeDir,
		Domains:   addDomains,
		CreatedAt: time.Now().UTC(),
	}

	if p.IsStatic() {
		if p.Dir == "" && p.ServeDir == "" {
			return fmt.Errorf("project type %s requires --dir or --serve-dir", p.Type)
		}
	} else {
		if err := validatePort(p.Port); err != nil {
			return err
		}
	}
	for _, d := range p.Domains {
		if err := validateDomain(d); err != nil {
			return err
		}
	}

	if err := requireRoot(); err != nil {
		return err
	}

	cfg, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	// Different names can share a slug, which would make the projects
	// fight over the same /app/ path prefix.
	slug := registry.Slug(name)
	for _, existing := range reg.List() {
		if registry.Slug(existing.Name) == slug && existing.Name != name {
			output.Warn("Project %q shares URL slug %q with existing project %q", name, slug, existing.Name)
		}
	}

	if err := reg.Add(p); err != nil {
		return err
	}
	if err := saveRegistry(reg); err != nil {
		return err
	}

	if noReload {
		output.Info("Project registered; run 'caddex sync' to apply proxy config")
	} else {
		output.Info("Writing proxy config for %s...", name)
		if err := svc.UpdateProjectConfig(context.Background(), p); err != nil {
			return fmt.Errorf("project registered but proxy update failed: %w", err)
		}
	}

	return outputResult(
		map[string]interface{}{
			"success": true,
			"project": name,
			"id":      p.ID,
			"type":    p.Type,
			"url":     svc.ProjectURL(p, cfg.ServerIP),
		},
		"Project %s registered", name,
	)
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	ref := args[0]

	if err := requireRoot(); err != nil {
		return err
	}

	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	p, err := reg.Resolve(ref)
	if err != nil {
		return err
	}

	if !forceRemove {
		if !confirm("Are you sure you want to remove project '%s'? [y/N]: ", p.Name) {
			output.Info("Removal cancelled")
			return nil
		}
	}

	if err := reg.Remove(p.ID); err != nil {
		return err
	}
	if err := saveRegistry(reg); err != nil {
		return err
	}

	// The registry entry is already gone, so a fragment cleanup failure
	// only warns. A later sync rewrites the whole directory anyway.
	output.Info("Removing proxy config...")
	if err := svc.DeleteProjectConfig(context.Background(), p.ID); err != nil {
		output.Warn("Project removed but proxy cleanup failed: %v", err)
	}

	return outputResult(
		map[string]interface{}{
			"success": true,
			"project": p.Name,
			"removed": true,
		},
		"Project %s removed", p.Name,
	)
}

type projectListItem struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Port    int      `json:"port,omitempty"`
	Domains []string `json:"domains,omitempty"`
	URL     string   `json:"url"`
}

func runProjectList(cmd *cobra.Command, args []string) error {
	cfg, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	items := make([]projectListItem, 0)
	for _, p := range reg.List() {
		items = append(items, projectListItem{
			ID:      p.ID,
			Name:    p.Name,
			Type:    p.Type,
			Port:    p.Port,
			Domains: p.Domains,
			URL:     svc.ProjectURL(p, cfg.ServerIP),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	if len(items) == 0 {
		if jsonOutput {
			return output.JSON([]projectListItem{})
		}
		output.Info("No projects registered")
		return nil
	}

	if jsonOutput {
		return output.JSON(items)
	}

	headers := []string{"NAME", "TYPE", "PORT", "DOMAINS", "URL"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		port := "-"
		if item.Port > 0 {
			port = strconv.Itoa(item.Port)
		}
		domains := "-"
		if len(item.Domains) > 0 {
			domains = strings.Join(item.Domains, ", ")
		}
		rows = append(rows, []string{item.Name, item.Type, port, domains, item.URL})
	}

	output.Table(headers, rows)
	return nil
}
