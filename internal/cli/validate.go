package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostbay/caddex/internal/output"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the generated Caddy configuration",
	Long: `Run 'caddy validate' against the generated top-level Caddyfile.

Examples:
  caddex validate
  caddex validate --json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	valid, out := svc.Validate(context.Background())

	if jsonOutput {
		if err := output.JSON(map[string]interface{}{
			"valid":  valid,
			"output": out,
		}); err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("configuration is invalid")
		}
		return nil
	}

	if !valid {
		if out != "" {
			output.Print("%s", strings.TrimRight(out, "\n"))
		}
		return fmt.Errorf("configuration is invalid")
	}

	output.Success("Configuration is valid")
	return nil
}
