// Package segment holds the prompt's segment providers: small functions that
// turn a snapshot of the shell's environment into colored fragments.
//
// Providers never read the process environment or clock directly. They
// receive a Context built once per render, so the same snapshot always
// renders the same line.
package segment

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/promptline/pkg/gitstate"
	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// Provider computes the fragments of one segment. Returning no fragments
// means the segment does not apply; an error is logged and treated the same.
type Provider interface {
	Compute(c *Context) ([]render.Fragment, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(c *Context) ([]render.Fragment, error)

// Compute calls f.
func (f ProviderFunc) Compute(c *Context) ([]render.Fragment, error) { return f(c) }

// Context is the input snapshot shared by every provider in one render.
type Context struct {
	// Env is the environment the shell hook passed in, including the hook's
	// own variables (code, jobs, uid, dirs, hostname).
	Env map[string]string
	// Cwd is the absolute working directory.
	Cwd string
	// Theme resolves glyphs and colors.
	Theme *theme.Resolver
	// Now is the render clock.
	Now func() time.Time
	// Logger receives provider diagnostics.
	Logger *slog.Logger
	// Git is the detector configuration; git segment args refine it.
	Git gitstate.Options
	// Parent bounds providers that talk to other processes. Nil means
	// context.Background.
	Parent context.Context
	// Timeout caps each such call.
	Timeout time.Duration
}

// DefaultTimeout bounds IPC made by a single provider.
const DefaultTimeout = 150 * time.Millisecond

// EnvFromList snapshots a KEY=VALUE list such as os.Environ.
func EnvFromList(list []string) map[string]string {
	env := make(map[string]string, len(list))
	for _, kv := range list {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// NewContext builds a Context from the process environment. The working
// directory is $PWD when it names the current directory, so symlinked
// paths keep the name the user typed.
func NewContext(r *theme.Resolver, logger *slog.Logger) *Context {
	env := EnvFromList(os.Environ())
	cwd, err := os.Getwd()
	if err != nil {
		cwd = env["PWD"]
	}
	if pwd := env["PWD"]; filepath.IsAbs(pwd) && sameDir(pwd, cwd) {
		cwd = pwd
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{
		Env:     env,
		Cwd:     cwd,
		Theme:   r,
		Now:     time.Now,
		Logger:  logger,
		Timeout: DefaultTimeout,
	}
}

func sameDir(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// Getenv returns the snapshot value of key.
func (c *Context) Getenv(key string) string { return c.Env[key] }

// LookupEnv is Getenv that distinguishes unset from empty.
func (c *Context) LookupEnv(key string) (string, bool) {
	v, ok := c.Env[key]
	return v, ok
}

// Style resolves a theme entry.
func (c *Context) Style(kind, sub string) theme.Style {
	if c.Theme == nil {
		return theme.Default().Resolve(kind, sub)
	}
	return c.Theme.Resolve(kind, sub)
}

// Fragment builds a fragment colored by (kind, sub).
func (c *Context) Fragment(kind, sub, text string) render.Fragment {
	return render.Styled(kind+"."+orDefault(sub), text, c.Style(kind, sub))
}

// Glyph returns the themed symbol of (kind, sub).
func (c *Context) Glyph(kind, sub string) string {
	return c.Style(kind, sub).Glyph
}

// Deadline derives a context for one IPC call.
func (c *Context) Deadline() (context.Context, context.CancelFunc) {
	parent := c.Parent
	if parent == nil {
		parent = context.Background()
	}
	d := c.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(parent, d)
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func orDefault(sub string) string {
	if sub == "" {
		return theme.SubDefault
	}
	return sub
}

// one wraps a single fragment, dropping it when empty.
func one(f render.Fragment) []render.Fragment {
	if f.Empty() {
		return nil
	}
	return []render.Fragment{f}
}
