package terminal

import (
	"strings"

	"github.com/muesli/termenv"
)

// Capabilities summarizes what the prompt may emit.
type Capabilities struct {
	Term      Terminal
	TrueColor bool // 24-bit color support
	NoColor   bool // NO_COLOR set or TERM=dumb
	SSH       bool // Running over SSH
	Mux       bool // Inside tmux or screen
}

// Probe derives capabilities from environment variables alone.
func Probe(getenv Getenv) Capabilities {
	term := DetectFrom(getenv)

	trueColor := term.SupportsTrueColor()
	if !trueColor {
		ct := strings.ToLower(getenv("COLORTERM"))
		trueColor = ct == "truecolor" || ct == "24bit"
	}

	return Capabilities{
		Term:      term,
		TrueColor: trueColor,
		NoColor:   getenv("NO_COLOR") != "" || term == TermDumb,
		SSH:       isSSH(getenv),
		Mux:       getenv("TMUX") != "" || getenv("STY") != "",
	}
}

// Profile picks the termenv color profile for the capabilities. Prompts are
// rendered inside command substitution, so stdout is never a TTY and
// termenv's own output probing does not apply.
func (c Capabilities) Profile() termenv.Profile {
	switch {
	case c.NoColor:
		return termenv.Ascii
	case c.TrueColor:
		return termenv.TrueColor
	case c.Term == TermLinux:
		return termenv.ANSI
	default:
		return termenv.ANSI256
	}
}

// ParseProfile maps a config value to a termenv profile. ok is false for
// "auto" and unrecognized names.
func ParseProfile(name string) (p termenv.Profile, ok bool) {
	switch strings.ToLower(name) {
	case "truecolor", "24bit":
		return termenv.TrueColor, true
	case "256", "ansi256":
		return termenv.ANSI256, true
	case "16", "ansi":
		return termenv.ANSI, true
	case "none", "ascii":
		return termenv.Ascii, true
	default:
		return termenv.Ascii, false
	}
}

func isSSH(getenv Getenv) bool {
	return getenv("SSH_TTY") != "" || getenv("SSH_CONNECTION") != "" || getenv("SSH_CLIENT") != ""
}
