package cli

import (
	"context"

	"github.com/hostbay/caddex/internal/output"
	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Validate and reload the running Caddy instance",
	Long: `Validate the generated configuration, then apply it to the running
Caddy instance. Reload is attempted through the admin API first, then
systemctl, then the caddy CLI.

Examples:
  caddex reload`,
	RunE: runReload,
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	output.Info("Reloading Caddy...")
	if err := svc.Apply(context.Background()); err != nil {
		return err
	}

	return outputResult(
		map[string]interface{}{
			"success":  true,
			"reloaded": true,
		},
		"Caddy reloaded",
	)
}
