package cli

import (
	"fmt"

	"atscore/internal/formatters"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, config file, environment variables
and Vault secrets have been applied. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}

		output, err := formatters.GlobalRegistry.Format(cfg.Masked(), "json")
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	},
}
