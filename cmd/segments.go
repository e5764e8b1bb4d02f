package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/segment"
	"gitlab.com/tinyland/lab/promptline/pkg/shell"
	"gitlab.com/tinyland/lab/promptline/pkg/terminal"
)

var segmentsFlags, segmentFlags renderFlags

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Run every configured segment and tabulate the outcome",
	Args:  cobra.NoArgs,
	RunE:  runSegments,
}

var segmentCmd = &cobra.Command{
	Use:   "segment <index>",
	Short: "Print the fragments of one configured segment",
	Long: `Run the segment at the given position of the configured list (see
"promptline segments") and print what it produced, rendered on its own.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	segmentsFlags.register(segmentsCmd, string(shell.Plain))
	segmentFlags.register(segmentCmd, string(shell.Plain))
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(segmentCmd)
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	outcomeStyles = map[segment.Outcome]lipgloss.Style{
		segment.Shown:     cellStyle.Foreground(lipgloss.Color("2")),
		segment.Abstained: cellStyle.Foreground(lipgloss.Color("8")),
		segment.Failed:    cellStyle.Foreground(lipgloss.Color("3")),
		segment.Panicked:  cellStyle.Foreground(lipgloss.Color("1")),
	}
)

const colOutcome = 2

func runSegments(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd, segmentsFlags)
	if err != nil {
		return err
	}

	texts := make([]string, env.registry.Len())
	for i := range texts {
		frags, err := env.registry.ComputeOne(env.ctx, i)
		if err != nil {
			return err
		}
		texts[i] = fragmentTexts(frags)
	}
	statuses := env.registry.Statuses()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "KIND", "OUTCOME", "FRAGMENTS", "LATENCY", "TEXT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == colOutcome && row >= 0 && row < len(statuses) {
				if st, ok := outcomeStyles[statuses[row].Outcome]; ok {
					return st
				}
			}
			return cellStyle
		})
	for i, st := range statuses {
		text := texts[i]
		if st.Err != nil {
			text = st.Err.Error()
		}
		t.Row(
			strconv.Itoa(st.Index),
			st.Kind,
			st.Outcome.String(),
			strconv.Itoa(st.Fragments),
			st.Latency.Round(time.Microsecond).String(),
			text,
		)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sessionSummary())
	_, err = fmt.Fprintln(out, t.String())
	return err
}

// sessionSummary names the shell and terminal promptline finds itself in,
// independent of any --shell flag.
func sessionSummary() string {
	sh := string(shell.Detect(os.Getenv))
	if shell.IsLoginShell() {
		sh += " (login)"
	}
	return fmt.Sprintf("shell: %s  terminal: %s", sh, terminal.Detect())
}

func runSegment(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("segment index %q is not a number", args[0])
	}
	env, err := newEnvironment(cmd, segmentFlags)
	if err != nil {
		return err
	}
	frags, err := env.registry.ComputeOne(env.ctx, idx)
	if err != nil {
		return err
	}
	st := env.registry.Statuses()[idx]
	if st.Err != nil {
		return fmt.Errorf("segment %d (%s): %w", idx, st.Kind, st.Err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, render.Render(frags, env.opts)); err != nil {
		return err
	}
	for _, f := range frags {
		fmt.Fprintf(out, "%-20s %q fg=%s bg=%s width=%d\n", f.Source, f.Text, f.Fg, f.Bg, f.Width)
	}
	return nil
}

func fragmentTexts(frags []render.Fragment) string {
	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = strings.TrimSpace(f.Text)
	}
	return strings.Join(parts, " | ")
}
