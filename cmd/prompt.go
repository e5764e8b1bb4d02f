package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/segment"
	"gitlab.com/tinyland/lab/promptline/pkg/shell"
	"gitlab.com/tinyland/lab/promptline/pkg/terminal"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// renderFlags are shared by every command that draws segments.
type renderFlags struct {
	shell string
	width int
	theme string
	color string
}

func (f *renderFlags) register(cmd *cobra.Command, defaultShell string) {
	cmd.Flags().StringVar(&f.shell, "shell", defaultShell, "Prompt dialect: bash, zsh, fish, plain (default: detect)")
	cmd.Flags().IntVar(&f.width, "width", 0, "Terminal width in columns (0 = detect)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "Theme name (overrides config)")
	cmd.Flags().StringVar(&f.color, "color", "", "Color profile: truecolor, 256, 16, none (default: detect)")
}

var promptFlags renderFlags

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt line",
	Long: `Print the prompt line for the current directory.

The shell hook installed by "promptline init" runs this before every prompt
and passes the last exit status, job count and directory stack through the
environment variables code, jobs and dirs.`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	promptFlags.register(promptCmd, "")
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd, promptFlags)
	if err != nil {
		return err
	}
	frags := env.registry.Compute(env.ctx)
	line := render.Render(frags, env.opts)
	logger.Debug("prompt rendered", "fragments", len(frags), "width", env.opts.Width, "shell", env.opts.Shell)
	_, err = fmt.Fprint(cmd.OutOrStdout(), line)
	return err
}

// environment is everything one render needs.
type environment struct {
	registry *segment.Registry
	ctx      *segment.Context
	opts     render.Options
}

// newEnvironment combines flags, configuration and the process environment.
// Flags win over configuration, which wins over detection.
func newEnvironment(cmd *cobra.Command, f renderFlags) (*environment, error) {
	reg, err := segment.FromSpecs(cfg.Specs())
	if err != nil {
		return nil, err
	}
	gitOpts, err := cfg.GitOptions()
	if err != nil {
		return nil, err
	}

	resolver := cfg.Resolver()
	if f.theme != "" {
		t, ok := theme.Lookup(f.theme)
		if !ok {
			return nil, fmt.Errorf("unknown theme %q (have %s)", f.theme, strings.Join(theme.Names(), ", "))
		}
		resolver = theme.NewResolver(t, cfg.Theme.Overrides)
	}

	c := segment.NewContext(resolver, logger)
	c.Git = gitOpts
	c.Parent = cmd.Context()
	c.Timeout = cfg.SegmentTimeout()

	sh, err := pickShell(f.shell, cfg.Shell, c.Getenv)
	if err != nil {
		return nil, err
	}
	profile, err := pickProfile(f.color, cfg.Color, c.Getenv)
	if err != nil {
		return nil, err
	}
	width := f.width
	if width <= 0 {
		width = cfg.Width
	}
	if width <= 0 {
		width = terminal.Width(c.Getenv)
	}

	return &environment{
		registry: reg,
		ctx:      c,
		opts: render.Options{
			Width:   width,
			Shell:   sh,
			Profile: profile,
			Theme:   resolver,
		},
	}, nil
}

func pickShell(flag, configured string, getenv func(string) string) (shell.ShellType, error) {
	for _, name := range []string{flag, configured} {
		if name == "" || name == "auto" {
			continue
		}
		sh, ok := shell.Parse(name)
		if !ok {
			return "", fmt.Errorf("unknown shell %q", name)
		}
		return sh, nil
	}
	return shell.Detect(getenv), nil
}

func pickProfile(flag, configured string, getenv func(string) string) (termenv.Profile, error) {
	for _, name := range []string{flag, configured} {
		if name == "" || strings.EqualFold(name, "auto") {
			continue
		}
		p, ok := terminal.ParseProfile(name)
		if !ok {
			return termenv.Ascii, fmt.Errorf("unknown color profile %q", name)
		}
		return p, nil
	}
	return terminal.Probe(getenv).Profile(), nil
}
