package render

import (
	"strings"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/promptline/pkg/shell"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

const (
	sgrResetSeq     = termenv.CSI + termenv.ResetSeq + "m"
	sgrDefaultBgSeq = "49"
)

// sgrWriter emits color changes as shell-wrapped SGR sequences. Under the
// Ascii profile every method returns "".
type sgrWriter struct {
	profile termenv.Profile
	shell   shell.ShellType
}

func (w sgrWriter) seq(c theme.Color, bg bool) string {
	if c.IsZero() {
		return ""
	}
	col := w.profile.Color(string(c))
	if col == nil {
		return ""
	}
	return col.Sequence(bg)
}

func (w sgrWriter) emit(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return w.shell.Wrap(termenv.CSI + strings.Join(nonEmpty, ";") + "m")
}

func (w sgrWriter) colors(fg, bg theme.Color) string {
	return w.emit(w.seq(fg, false), w.seq(bg, true))
}

// closing colors the final separator: the last background becomes the
// foreground over the terminal's default background.
func (w sgrWriter) closing(lastBg theme.Color) string {
	if w.profile == termenv.Ascii {
		return ""
	}
	return w.emit(w.seq(lastBg, false), sgrDefaultBgSeq)
}

func (w sgrWriter) reset() string {
	if w.profile == termenv.Ascii {
		return ""
	}
	return w.shell.Wrap(sgrResetSeq)
}
