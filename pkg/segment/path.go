package segment

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type pathArgs struct {
	ShowRoot     bool `args:"show_root"`
	ShowDirStack bool `args:"show_dir_stack"`
	// MaxComponentWidth truncates long directory names; 0 disables.
	MaxComponentWidth int `args:"max_component_width"`
}

type pathProvider struct{ args pathArgs }

func newPath(raw map[string]any) (Provider, error) {
	p := pathProvider{args: pathArgs{ShowDirStack: true}}
	if err := decodeArgs(theme.KindPath, raw, &p.args); err != nil {
		return nil, err
	}
	if p.args.MaxComponentWidth < 0 {
		return nil, fmt.Errorf("segment path: max_component_width must not be negative")
	}
	return p, nil
}

// Compute renders breadcrumbs: an optional directory-stack depth, then the
// home glyph or root, middle components, and the last component.
func (p pathProvider) Compute(c *Context) ([]render.Fragment, error) {
	pwd := c.Getenv("PWD")
	if !filepath.IsAbs(pwd) {
		pwd = c.Cwd
	}
	if pwd == "" {
		return nil, fmt.Errorf("working directory unknown: $PWD not set")
	}
	pwd = filepath.ToSlash(filepath.Clean(pwd))

	var frags []render.Fragment
	if p.args.ShowDirStack {
		if dirs, ok := c.LookupEnv("dirs"); ok {
			if depth := strings.Count(strings.TrimRight(dirs, "\n"), "\n") + 1; depth > 1 {
				text := fmt.Sprintf("%d %s", depth, c.Glyph(theme.KindPath, "dir_stack"))
				frags = append(frags, c.Fragment(theme.KindPath, "dir_stack", text))
			}
		}
	}

	rest, home := trimHome(pwd, filepath.ToSlash(c.Getenv("HOME")))
	switch {
	case home:
		frags = append(frags, c.Fragment(theme.KindPath, "home", c.Glyph(theme.KindPath, "home")))
	case rest == "" || p.args.ShowRoot:
		frags = append(frags, c.Fragment(theme.KindPath, "root", c.Glyph(theme.KindPath, "root")))
	}

	parts := splitPath(rest)
	for i, part := range parts {
		sub := theme.SubDefault
		if i == len(parts)-1 {
			sub = "last"
		}
		frags = append(frags, c.Fragment(theme.KindPath, sub, p.shorten(c, part)))
	}
	return frags, nil
}

// trimHome strips home from pwd at a component boundary.
func trimHome(pwd, home string) (rest string, ok bool) {
	home = strings.TrimRight(home, "/")
	if home == "" {
		return strings.TrimPrefix(pwd, "/"), false
	}
	if pwd == home {
		return "", true
	}
	if r, found := strings.CutPrefix(pwd, home+"/"); found {
		return r, true
	}
	return strings.TrimPrefix(pwd, "/"), false
}

func splitPath(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p pathProvider) shorten(c *Context, part string) string {
	if p.args.MaxComponentWidth <= 0 {
		return part
	}
	return render.TruncateWithTail(part, p.args.MaxComponentWidth, c.Glyph(theme.KindTruncation, theme.SubDefault))
}
