package cli

import (
	"context"

	"github.com/hostbay/caddex/internal/output"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rewrite all proxy config from the registry and reload",
	Long: `Rewrite every project fragment and the top-level Caddyfile from
the project registry, remove stale fragments, and reload Caddy.

Examples:
  caddex sync`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	projects := reg.List()
	output.Info("Syncing proxy config for %d project(s)...", len(projects))
	if err := svc.Initialize(context.Background(), projects); err != nil {
		return err
	}

	return outputResult(
		map[string]interface{}{
			"success":  true,
			"projects": len(projects),
		},
		"Proxy config synced for %d project(s)", len(projects),
	)
}
