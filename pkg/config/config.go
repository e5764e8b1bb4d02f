// Package config provides TOML-based configuration for promptline. YAML
// files are accepted as well when the file extension says so.
package config

import (
	"log/slog"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/promptline/pkg/gitstate"
	"gitlab.com/tinyland/lab/promptline/pkg/segment"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// Config is the complete promptline configuration.
type Config struct {
	// Shell forces the prompt dialect; empty or "auto" detects it.
	Shell string `toml:"shell,omitempty" yaml:"shell,omitempty"`
	// Width overrides the terminal width; 0 detects it.
	Width int `toml:"width,omitempty" yaml:"width,omitempty"`
	// Color forces a color profile (truecolor, 256, 16, none); empty or
	// "auto" derives it from the terminal.
	Color string `toml:"color,omitempty" yaml:"color,omitempty"`
	// Timeout bounds each segment that talks to another process.
	Timeout Duration `toml:"timeout" yaml:"timeout"`
	// Preset names the segment list used when Segments is empty.
	Preset string `toml:"preset,omitempty" yaml:"preset,omitempty"`

	Log      LogConfig      `toml:"log" yaml:"log"`
	Theme    ThemeConfig    `toml:"theme" yaml:"theme"`
	Git      GitConfig      `toml:"git" yaml:"git"`
	Segments []segment.Spec `toml:"segments,omitempty" yaml:"segments,omitempty"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// LogConfig controls diagnostics. Prompts are drawn on every command, so
// the default level only reports errors.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file,omitempty" yaml:"file,omitempty"`
}

// ThemeConfig selects a theme and layers overrides on top of it.
type ThemeConfig struct {
	Name string `toml:"name" yaml:"name"`
	// Dir holds additional theme files, loaded before Name is resolved.
	Dir       string         `toml:"dir,omitempty" yaml:"dir,omitempty"`
	Overrides theme.Document `toml:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// GitConfig is the repository detector configuration. The git segment's
// own args refine it per segment.
type GitConfig struct {
	OperationPriority []string `toml:"operation_priority,omitempty" yaml:"operation_priority,omitempty"`
	ShowUntracked     bool     `toml:"show_untracked" yaml:"show_untracked"`
	GlobalExcludes    bool     `toml:"global_excludes" yaml:"global_excludes"`
	ShortIDLength     int      `toml:"short_id_length,omitempty" yaml:"short_id_length,omitempty"`
}

// Specs returns the configured segment list, or the preset's when none is
// configured.
func (c *Config) Specs() []segment.Spec {
	if len(c.Segments) > 0 {
		return c.Segments
	}
	return SegmentPreset(c.Preset)
}

// Resolver builds the style resolver for the configured theme.
func (c *Config) Resolver() *theme.Resolver {
	return theme.NewResolver(theme.Get(c.Theme.Name), c.Theme.Overrides)
}

// LoadThemes registers the theme files found in Theme.Dir.
func (c *Config) LoadThemes() ([]string, error) {
	if c.Theme.Dir == "" {
		return nil, nil
	}
	return theme.LoadDir(c.Theme.Dir)
}

// GitOptions converts the git table into detector options.
func (c *Config) GitOptions() (gitstate.Options, error) {
	opts := gitstate.Options{
		ShortIDLength:  c.Git.ShortIDLength,
		SkipUntracked:  !c.Git.ShowUntracked,
		GlobalExcludes: c.Git.GlobalExcludes,
	}
	for _, name := range c.Git.OperationPriority {
		k, err := gitstate.ParseOperationKind(name)
		if err != nil {
			return gitstate.Options{}, err
		}
		opts.OperationPriority = append(opts.OperationPriority, k)
	}
	return opts, nil
}

// LogLevel parses Log.Level. Unrecognized levels read as error.
func (c *Config) LogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelError
	}
	return lvl
}

// SegmentTimeout is Timeout with the segment default applied.
func (c *Config) SegmentTimeout() time.Duration {
	if c.Timeout.Duration <= 0 {
		return segment.DefaultTimeout
	}
	return c.Timeout.Duration
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelError, nil
	}
	err := lvl.UnmarshalText([]byte(strings.ToUpper(s)))
	return lvl, err
}
