package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/gitstate"
)

var locationCmd = &cobra.Command{
	Use:   "location [path]",
	Short: "Show where the repository containing path keeps its files",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLocation,
}

func init() {
	rootCmd.AddCommand(locationCmd)
}

func runLocation(cmd *cobra.Command, args []string) error {
	start := ""
	if len(args) > 0 {
		start = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		start = wd
	}

	loc, err := gitstate.Locate(start)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%s is not inside a git repository", start)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "worktree:   %s\n", loc.WorkTree)
	fmt.Fprintf(out, "git dir:    %s\n", loc.GitDir)
	fmt.Fprintf(out, "common dir: %s\n", loc.CommonDir)
	if loc.Linked() {
		fmt.Fprintln(out, "linked:     yes")
	}
	return nil
}
