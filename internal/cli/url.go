package cli

import (
	"github.com/hostbay/caddex/internal/output"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url <name|id>",
	Short: "Print the public URL of a project",
	Long: `Print the URL a project is reachable at: its first custom domain
when it has one, otherwise the path-based address under /app/.

Examples:
  caddex url blog`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	cfg, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	p, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}

	url := svc.ProjectURL(p, cfg.ServerIP)
	if jsonOutput {
		return output.JSON(map[string]string{
			"project": p.Name,
			"url":     url,
		})
	}
	output.Print("%s", url)
	return nil
}
