package segment

import (
	"fmt"
	"strconv"

	"gitlab.com/tinyland/lab/promptline/pkg/gitstate"
	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type gitArgs struct {
	ShowUntracked  *bool `args:"show_untracked"`
	GlobalExcludes *bool `args:"global_excludes"`
	ShowStash      bool  `args:"show_stash"`
	ShortIDLength  int   `args:"short_id_length"`
}

type gitProvider struct {
	args   gitArgs
	detect func(start string, opts gitstate.Options) (*gitstate.State, error)
}

func newGit(raw map[string]any) (Provider, error) {
	p := gitProvider{args: gitArgs{ShowStash: true}, detect: gitstate.Detect}
	if err := decodeArgs(theme.KindGit, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

func (p gitProvider) options(c *Context) gitstate.Options {
	opts := c.Git
	if p.args.ShowUntracked != nil {
		opts.SkipUntracked = !*p.args.ShowUntracked
	}
	if p.args.GlobalExcludes != nil {
		opts.GlobalExcludes = *p.args.GlobalExcludes
	}
	if p.args.ShortIDLength > 0 {
		opts.ShortIDLength = p.args.ShortIDLength
	}
	return opts
}

// Compute renders the head fragment followed by one fragment per non-zero
// counter. Outside a repository the segment abstains.
func (p gitProvider) Compute(c *Context) ([]render.Fragment, error) {
	if c.Cwd == "" {
		return nil, nil
	}
	st, err := p.detect(c.Cwd, p.options(c))
	if err != nil {
		return nil, fmt.Errorf("detect repository state: %w", err)
	}
	if st == nil {
		return nil, nil
	}
	return gitFragments(c, st, p.args.ShowStash), nil
}

func gitFragments(c *Context, st *gitstate.State, showStash bool) []render.Fragment {
	colors := "clean"
	if st.Status.Dirty() {
		colors = "dirty"
	}
	glyphSub := colors
	switch st.Head.Kind {
	case gitstate.HeadDetached:
		glyphSub = "detached"
	case gitstate.HeadUnborn:
		glyphSub = "unborn"
	}
	head := c.Glyph(theme.KindGit, glyphSub) + " " + st.Head.Name()
	frags := []render.Fragment{
		render.Styled("git."+glyphSub, head, c.Style(theme.KindGit, colors)),
	}

	if st.Operation.Kind != gitstate.OpNone {
		text := c.Glyph(theme.KindGit, "operation") + " " + st.Operation.String()
		frags = append(frags, c.Fragment(theme.KindGit, "operation", text))
	}

	counter := func(sub string, n int) {
		if n > 0 {
			text := strconv.Itoa(n) + c.Glyph(theme.KindGit, sub)
			frags = append(frags, c.Fragment(theme.KindGit, sub, text))
		}
	}
	if ab := st.AheadBehind; ab != nil {
		counter("ahead", ab.Ahead)
		counter("behind", ab.Behind)
	}
	counter("staged", st.Status.Staged)
	counter("unstaged", st.Status.Unstaged)
	counter("untracked", st.Status.Untracked)
	counter("conflicted", st.Status.Conflicted)
	if showStash {
		counter("stash", st.Stash)
	}
	return frags
}
