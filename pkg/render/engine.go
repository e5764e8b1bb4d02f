package render

import (
	"strings"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/promptline/pkg/shell"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// Options control one render.
type Options struct {
	// Width is the terminal width in columns; 0 disables truncation.
	Width int
	// Shell selects the non-printing wrapper and text escaping.
	Shell shell.ShellType
	// Profile is the color depth escape sequences are downgraded to.
	Profile termenv.Profile
	// Theme styles separators and the truncation ellipsis.
	Theme *theme.Resolver
}

type separators struct {
	thick, thin   string
	thickW, thinW int
	thinFg        theme.Color
}

func (o Options) separators() separators {
	r := o.resolver()
	thick := r.Resolve(theme.KindSeparator, "thick")
	thin := r.Resolve(theme.KindSeparator, "thin")
	return separators{
		thick:  thick.Glyph,
		thin:   thin.Glyph,
		thickW: VisibleLen(thick.Glyph),
		thinW:  VisibleLen(thin.Glyph),
		thinFg: thin.Fg,
	}
}

func (o Options) resolver() *theme.Resolver {
	if o.Theme != nil {
		return o.Theme
	}
	return theme.Default()
}

// Render produces the prompt line for frags in order. The line ends with a
// color reset and one space. Zero non-empty fragments render as "".
func Render(frags []Fragment, opts Options) string {
	frags = Layout(frags, opts)
	if len(frags) == 0 {
		return ""
	}
	seps := opts.separators()
	sgr := sgrWriter{profile: opts.Profile, shell: opts.Shell}

	var b strings.Builder
	for i, f := range frags {
		b.WriteString(sgr.colors(f.Fg, f.Bg))
		b.WriteString(opts.Shell.Escape(f.Text))

		if i+1 < len(frags) {
			next := frags[i+1]
			if next.Bg == f.Bg {
				b.WriteString(sgr.colors(seps.thinFg, f.Bg))
				b.WriteString(opts.Shell.Escape(seps.thin))
			} else {
				b.WriteString(sgr.colors(f.Bg, next.Bg))
				b.WriteString(opts.Shell.Escape(seps.thick))
			}
			continue
		}
		b.WriteString(sgr.closing(f.Bg))
		b.WriteString(opts.Shell.Escape(seps.thick))
	}
	b.WriteString(sgr.reset())
	b.WriteByte(' ')
	return b.String()
}

// Measure returns the display width Render would produce for frags as given,
// without truncation: fragment widths, separators and the trailing space.
func Measure(frags []Fragment, opts Options) int {
	return measure(compact(frags), opts.separators())
}

func measure(frags []Fragment, seps separators) int {
	if len(frags) == 0 {
		return 0
	}
	total := 1 // trailing space
	for i, f := range frags {
		total += f.Width
		if i+1 < len(frags) && frags[i+1].Bg == f.Bg {
			total += seps.thinW
		} else {
			total += seps.thickW
		}
	}
	return total
}

// Layout drops empty fragments and, when the line is wider than
// opts.Width, elides fragments from the middle outward. The first and last
// fragments are never elided; the elided run is replaced by one ellipsis
// fragment. If the line still does not fit once only first, ellipsis and
// last remain, that line is returned anyway.
func Layout(frags []Fragment, opts Options) []Fragment {
	frags = compact(frags)
	seps := opts.separators()
	if opts.Width <= 0 || len(frags) < 3 || measure(frags, seps) <= opts.Width {
		return frags
	}

	st := opts.resolver().Resolve(theme.KindTruncation, theme.SubDefault)
	ellipsis := Styled("truncation", st.Glyph, st)

	n := len(frags)
	mid := n / 2
	lo, hi := mid, mid // elided range, inclusive
	var out []Fragment
	for {
		out = elide(frags, lo, hi, ellipsis)
		if measure(out, seps) <= opts.Width || (lo == 1 && hi == n-2) {
			return out
		}
		// Grow toward whichever side is further from its end; ties go left.
		switch {
		case lo > 1 && (mid-lo <= hi-mid || hi == n-2):
			lo--
		case hi < n-2:
			hi++
		default:
			lo--
		}
	}
}

func elide(frags []Fragment, lo, hi int, ellipsis Fragment) []Fragment {
	out := make([]Fragment, 0, len(frags)-(hi-lo))
	out = append(out, frags[:lo]...)
	out = append(out, ellipsis)
	out = append(out, frags[hi+1:]...)
	return out
}

func compact(frags []Fragment) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if !f.Empty() {
			out = append(out, f)
		}
	}
	return out
}
