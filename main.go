// promptline renders a powerline-style shell prompt.
//
// It shows the user, host and working directory alongside the state of the
// enclosing git repository (branch, operation in progress, ahead/behind
// counts, staged, unstaged, untracked and conflicted files, stashes), and
// truncates from the middle when the line is wider than the terminal.
//
// Usage:
//
//	eval "$(promptline init bash)"
//
// See `promptline --help` for the debugging subcommands.
package main

import (
	"fmt"
	"os"

	"gitlab.com/tinyland/lab/promptline/cmd"
)

// Version information set via ldflags at build time
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "promptline: %v\n", err)
		os.Exit(1)
	}
}
