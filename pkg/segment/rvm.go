package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type rvmArgs struct {
	ForceShow bool `args:"force_show"`
}

type rvmProvider struct{ args rvmArgs }

func newRvm(raw map[string]any) (Provider, error) {
	var p rvmProvider
	if err := decodeArgs(theme.KindRvm, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

// gemsetPattern matches `[interp-]X[.Y[.Z]][@gemset]`.
var gemsetPattern = regexp.MustCompile(`(?:([A-Za-z0-9_]+)-)?(\d+(?:\.\d+){0,2})(?:@([A-Za-z0-9_]+))?`)

type gemset struct {
	interp  string
	version string
	name    string
}

func parseGemset(s string) (gemset, bool) {
	m := gemsetPattern.FindStringSubmatch(s)
	if m == nil {
		return gemset{}, false
	}
	g := gemset{interp: m[1], version: m[2], name: m[3]}
	if g.interp == "" {
		g.interp = "ruby"
	}
	return g, true
}

// satisfies reports whether have meets a requested version, where a
// request like "2.7" accepts any 2.7.x.
func (want gemset) satisfies(have gemset) bool {
	if want.interp != have.interp {
		return false
	}
	return have.version == want.version || strings.HasPrefix(have.version, want.version+".")
}

// Compute shows the active RVM ruby inside projects with a Gemfile, and
// flags it when .ruby-version asks for another.
func (p rvmProvider) Compute(c *Context) ([]render.Fragment, error) {
	if _, ok := c.LookupEnv("rvm_version"); !ok {
		return nil, nil
	}
	rvmPath := c.Getenv("rvm_path")
	gemHome := c.Getenv("GEM_HOME")
	if rvmPath == "" || gemHome == "" {
		return nil, nil
	}
	pwd := c.Getenv("PWD")
	if !filepath.IsAbs(pwd) {
		pwd = c.Cwd
	}
	gemsDir := filepath.Join(rvmPath, "gems")
	stop := func(dir string) bool { return dir == c.Getenv("HOME") || dir == gemsDir }

	if _, ok := findAncestor(pwd, "Gemfile", stop); !ok && !p.args.ForceShow {
		return nil, nil
	}

	current, ok := parseGemset(strings.TrimPrefix(strings.TrimPrefix(gemHome, gemsDir), "/"))
	if !ok {
		return nil, fmt.Errorf("parse current ruby from $GEM_HOME %q", gemHome)
	}

	mismatch := false
	if path, ok := findAncestor(pwd, ".ruby-version", stop); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		want, ok := parseGemset(strings.TrimSpace(string(data)))
		if !ok {
			return nil, fmt.Errorf("parse requested ruby in %s", path)
		}
		mismatch = !want.satisfies(current)
	}

	text := current.version
	if current.name != "" {
		text = fmt.Sprintf("%s (v%s)", current.name, current.version)
	}
	sub := theme.SubDefault
	if mismatch {
		sub = "mismatch"
		text += " " + c.Glyph(theme.KindRvm, sub)
	}
	return one(c.Fragment(theme.KindRvm, sub, text)), nil
}

// findAncestor looks for name in dir and its parents, skipping directories
// for which skip returns true.
func findAncestor(dir, name string, skip func(string) bool) (string, bool) {
	for dir != "" {
		if !skip(dir) {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
