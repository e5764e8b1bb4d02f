// Package cmd implements the promptline command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/promptline/pkg/config"
)

var (
	configPath            string
	verbose               bool
	version, commit, date string
)

// Loaded by the root command's PersistentPreRunE before any subcommand runs.
var (
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "promptline",
	Short: "Powerline-style shell prompt with git status",
	Long: `promptline renders a one-line powerline prompt for bash, zsh and fish.

Install it by adding the output of "promptline init --rc" to your shell's rc
file. Segments, theme and git behavior are configured in
~/.config/promptline/config.toml; run "promptline default-config" to see
every setting.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("promptline %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("promptline %s\n", version)
}

// setup loads the configuration and builds the logger. An unusable
// configuration fails every command except prompt, which logs the problem
// and renders with the defaults.
func setup(cmd *cobra.Command, args []string) error {
	lenient := cmd == promptCmd

	cfgErr := loadConfig()
	if cfgErr != nil {
		if !lenient {
			return cfgErr
		}
		cfg = config.DefaultConfig()
	}

	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	w, err := logWriter(cmd.ErrOrStderr())
	if err != nil && !lenient {
		return err
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	if err != nil {
		logger.Error("logging to stderr only", "err", err)
	}

	if cfgErr != nil {
		logger.Error("using default configuration", "err", cfgErr)
		return nil
	}
	logger.Debug("config loaded", "path", cfg.Path, "theme", cfg.Theme.Name, "segments", len(cfg.Specs()))
	return nil
}

func loadConfig() error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := cfg.LoadThemes(); err != nil {
		return fmt.Errorf("failed to load themes: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// logWriter is stderr, teed into the configured log file. On error it still
// returns stderr.
func logWriter(stderr io.Writer) (io.Writer, error) {
	if cfg.Log.File == "" {
		return stderr, nil
	}
	if err := ensureLogDir(cfg.Log.File); err != nil {
		return stderr, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return stderr, fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f
	return io.MultiWriter(stderr, f), nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	return os.MkdirAll(dir, 0o755)
}
