package config

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/promptline/pkg/segment"
	"gitlab.com/tinyland/lab/promptline/pkg/shell"
	"gitlab.com/tinyland/lab/promptline/pkg/terminal"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// ErrUnknownSegment is reported for a segment kind no provider implements.
var ErrUnknownSegment = errors.New("config: unknown segment")

// Validate reports every problem in the configuration, joined. Theme files
// from Theme.Dir must be loaded first for Theme.Name to resolve.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	if c.Shell != "" && c.Shell != "auto" {
		if _, ok := shell.Parse(c.Shell); !ok {
			add("unknown shell %q", c.Shell)
		}
	}
	if c.Color != "" && !strings.EqualFold(c.Color, "auto") {
		if _, ok := terminal.ParseProfile(c.Color); !ok {
			add("unknown color profile %q", c.Color)
		}
	}
	if c.Width < 0 {
		add("width must not be negative, got %d", c.Width)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		add("log level %q: want debug, info, warn or error", c.Log.Level)
	}
	if c.Preset != "" {
		if _, ok := presets[c.Preset]; !ok {
			add("unknown preset %q (have %s)", c.Preset, strings.Join(PresetNames(), ", "))
		}
	}
	if _, ok := theme.Lookup(c.Theme.Name); !ok {
		add("unknown theme %q", c.Theme.Name)
	}
	if err := theme.ValidateDocument(c.Theme.Overrides); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.GitOptions(); err != nil {
		errs = append(errs, err)
	}
	if c.Git.ShortIDLength < 0 || c.Git.ShortIDLength > 40 {
		add("git short_id_length %d out of range", c.Git.ShortIDLength)
	}

	for i, spec := range c.Segments {
		if !segment.Known(spec.Kind) {
			errs = append(errs, fmt.Errorf("%w %q at segments[%d]", ErrUnknownSegment, spec.Kind, i))
			continue
		}
		if _, err := segment.New(spec); err != nil {
			errs = append(errs, fmt.Errorf("config: segments[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
