package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List and export themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes; the active one is marked with *",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		active := strings.ToLower(cfg.Theme.Name)
		for _, name := range theme.Names() {
			mark := " "
			if name == active {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, name)
		}
		return nil
	},
}

var themeExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a theme as TOML, ready to copy into the themes directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := theme.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown theme %q (have %s)", args[0], strings.Join(theme.Names(), ", "))
		}
		data, err := theme.SaveToTOML(t)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	rootCmd.AddCommand(themeCmd)
}
