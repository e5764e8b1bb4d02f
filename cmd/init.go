package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/config"
	"gitlab.com/tinyland/lab/promptline/pkg/shell"
)

var initRC bool

var initCmd = &cobra.Command{
	Use:   "init [shell]",
	Short: "Write the default config and print the prompt hook",
	Long: `Print the script that installs promptline as the prompt of the given
shell (detected when omitted). When no configuration file exists yet, the
default one is written first.

With --rc, print instead the single line to add to your shell's rc file.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(shell.Bash), string(shell.Zsh), string(shell.Fish)},
	RunE:      runInit,
}

var loadCmd = &cobra.Command{
	Use:       "load [shell]",
	Short:     "Print the prompt hook",
	Long:      `Print the script that installs promptline as the prompt of the given shell.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(shell.Bash), string(shell.Zsh), string(shell.Fish)},
	RunE:      runLoad,
}

func init() {
	initCmd.Flags().BoolVar(&initRC, "rc", false, "Print the rc file line instead of the hook")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loadCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	sh, err := hookShell(args)
	if err != nil {
		return err
	}
	if cfg.Path == "" {
		path := config.DefaultPath()
		wrote, err := config.WriteDefault(path)
		if err != nil {
			return err
		}
		if wrote {
			fmt.Fprintf(cmd.ErrOrStderr(), "promptline: wrote default config to %s\n", path)
		}
	}
	if initRC {
		line, err := shell.InitLine(sh, executable())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), line)
		return err
	}
	return printHook(cmd, sh)
}

func runLoad(cmd *cobra.Command, args []string) error {
	sh, err := hookShell(args)
	if err != nil {
		return err
	}
	return printHook(cmd, sh)
}

func printHook(cmd *cobra.Command, sh shell.ShellType) error {
	script, err := shell.Hook(sh, executable())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), script)
	return err
}

// hookShell resolves the optional shell argument, then the configured
// shell, then the detected one.
func hookShell(args []string) (shell.ShellType, error) {
	flag := ""
	if len(args) > 0 {
		flag = args[0]
	}
	return pickShell(flag, cfg.Shell, os.Getenv)
}

// executable is the path the hook calls back into.
func executable() string {
	exe, err := os.Executable()
	if err != nil {
		logger.Debug("cannot resolve executable path", "err", err)
		return "promptline"
	}
	return exe
}
