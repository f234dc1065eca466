package cli

import (
	"context"

	"github.com/hostbay/caddex/internal/output"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show proxy installation and runtime status",
	Long: `Show whether Caddy is installed and running, and how the control
plane is currently reachable.

Examples:
  caddex status
  caddex status --json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	st := svc.CheckStatus(context.Background())
	mode := svc.SecurityMode()

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"installed":     st.Installed,
			"running":       st.Running,
			"system_domain": svc.HasSystemDomain(),
			"security_mode": string(mode),
		})
	}

	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	output.Table(
		[]string{"INSTALLED", "RUNNING", "SYSTEM DOMAIN", "MODE"},
		[][]string{{yesNo(st.Installed), yesNo(st.Running), yesNo(svc.HasSystemDomain()), string(mode)}},
	)

	if !st.Installed {
		output.Warn("Caddy binary not found in PATH")
	} else if !st.Running {
		output.Warn("Caddy is installed but not running")
	}
	return nil
}
