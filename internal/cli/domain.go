package cli

import (
	"context"

	"github.com/hostbay/caddex/internal/output"
	"github.com/spf13/cobra"
)

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Manage the system domain for the control plane",
}

var domainSetCmd = &cobra.Command{
	Use:   "set <domain>",
	Short: "Point a domain at the control plane API over HTTPS",
	Long: `Write the system config fragment so Caddy serves the control
plane API on the given domain with automatic HTTPS.

Examples:
  caddex domain set panel.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runDomainSet,
}

var domainRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Remove the system domain and fall back to IP access",
	Args:    cobra.NoArgs,
	RunE:    runDomainRemove,
}

func init() {
	domainCmd.AddCommand(domainSetCmd)
	domainCmd.AddCommand(domainRemoveCmd)
	rootCmd.AddCommand(domainCmd)
}

func runDomainSet(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := validateDomain(domain); err != nil {
		return err
	}
	if err := requireRoot(); err != nil {
		return err
	}

	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	output.Info("Configuring system domain %s...", domain)
	if err := svc.UpdateSystemConfig(context.Background(), domain); err != nil {
		return err
	}

	return outputResult(
		map[string]interface{}{
			"success":       true,
			"domain":        domain,
			"security_mode": string(svc.SecurityMode()),
		},
		"System domain set to %s", domain,
	)
}

func runDomainRemove(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	if !svc.HasSystemDomain() {
		output.Info("No system domain configured")
		return nil
	}

	if err := svc.RemoveSystemConfig(context.Background()); err != nil {
		return err
	}

	return outputResult(
		map[string]interface{}{
			"success":       true,
			"removed":       true,
			"security_mode": string(svc.SecurityMode()),
		},
		"System domain removed",
	)
}
