package cmd

import (
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/config"
)

var currentYAML bool

var currentConfigCmd = &cobra.Command{
	Use:   "current-config",
	Short: "Print the effective configuration",
	Long: `Print the configuration promptline is using, after defaults and
environment overrides (PROMPTLINE_THEME, PROMPTLINE_SHELL, PROMPTLINE_WIDTH,
PROMPTLINE_LOG) have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Path != "" {
			logger.Info("configuration file", "path", cfg.Path)
		}
		if currentYAML {
			return config.EncodeYAML(cmd.OutOrStdout(), cfg)
		}
		return config.Encode(cmd.OutOrStdout(), cfg)
	},
}

var defaultConfigCmd = &cobra.Command{
	Use:   "default-config",
	Short: "Print the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.DefaultTOML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	currentConfigCmd.Flags().BoolVar(&currentYAML, "yaml", false, "Print YAML instead of TOML")
	rootCmd.AddCommand(currentConfigCmd)
	rootCmd.AddCommand(defaultConfigCmd)
}
