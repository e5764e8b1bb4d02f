// Package render assembles segment fragments into one powerline-style prompt
// line that fits the terminal width.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// Fragment is one colored cell of the prompt. Text is plain, already padded
// and free of escape sequences; Width is its terminal column count.
type Fragment struct {
	Text   string
	Fg     theme.Color
	Bg     theme.Color
	Width  int
	Source string // provider and part that produced it, for debugging
}

// New builds a padded fragment. Control characters and escape sequences in
// text are removed, since branch names and directory names are user data.
// Empty text yields the zero Fragment, which the engine drops.
func New(source, text string, fg, bg theme.Color) Fragment {
	text = Sanitize(text)
	if text == "" {
		return Fragment{}
	}
	padded := " " + text + " "
	return Fragment{
		Text:   padded,
		Fg:     fg,
		Bg:     bg,
		Width:  VisibleLen(padded),
		Source: source,
	}
}

// Styled builds a fragment colored by a resolved theme style.
func Styled(source, text string, st theme.Style) Fragment {
	return New(source, text, st.Fg, st.Bg)
}

// Empty reports whether the fragment contributes nothing.
func (f Fragment) Empty() bool { return f.Text == "" }

// Sanitize strips ANSI sequences and control characters.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}

// VisibleLen returns the visible character width of s in terminal cells.
// Wide characters (CJK, emoji) count as 2, combining marks as 0.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// TruncateWithTail truncates s to at most maxWidth visible characters,
// appending tail if truncation occurs. The tail counts toward maxWidth.
func TruncateWithTail(s string, maxWidth int, tail string) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, tail)
}
