// Package terminal identifies the terminal emulator, its color depth and its
// width. Every probe reads environment variables through a Getenv function so
// a render can be driven entirely from a captured snapshot.
package terminal

import (
	"os"
	"strings"
)

// Getenv looks up an environment variable, returning "" when unset.
type Getenv func(string) string

// OSEnv reads the process environment.
var OSEnv Getenv = os.Getenv

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown   Terminal = iota
	TermGhostty            // Ghostty
	TermKitty              // Kitty
	TermWezTerm            // WezTerm
	TermITerm2             // iTerm2
	TermAlacritty          // Alacritty
	TermTilix              // Tilix (VTE-based)
	TermGNOME              // GNOME Terminal (VTE-based)
	TermAppleTerm          // macOS Terminal.app (256 colors only)
	TermTmux               // tmux multiplexer
	TermScreen             // GNU Screen multiplexer
	TermVSCode             // VS Code integrated terminal
	TermEmacs              // Emacs vterm/eat
	TermLinux              // Linux virtual console (16 colors)
	TermDumb               // TERM=dumb, no escape sequences
	TermGeneric            // Unknown terminal with basic capabilities
)

// terminalNames maps Terminal values to human-readable strings.
var terminalNames = [...]string{
	TermUnknown:   "unknown",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermAlacritty: "alacritty",
	TermTilix:     "tilix",
	TermGNOME:     "gnome-terminal",
	TermAppleTerm: "apple-terminal",
	TermTmux:      "tmux",
	TermScreen:    "screen",
	TermVSCode:    "vscode",
	TermEmacs:     "emacs",
	TermLinux:     "linux",
	TermDumb:      "dumb",
	TermGeneric:   "generic",
}

// String returns the human-readable name of the terminal.
func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the terminal supports 24-bit true color.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermAlacritty, TermTilix, TermGNOME, TermVSCode:
		return true
	default:
		return false
	}
}

// Detect identifies the terminal emulator from the process environment.
func Detect() Terminal {
	return DetectFrom(OSEnv)
}

// DetectFrom identifies the terminal emulator from environment variables.
// Signals are ordered by reliability:
//
//  1. TERM_PROGRAM (most terminals set this)
//  2. TERM (xterm-ghostty, xterm-kitty, alacritty, linux, dumb)
//  3. Terminal-specific vars (KITTY_WINDOW_ID, ITERM_SESSION_ID, ...)
//  4. VTE_VERSION for VTE-based terminals (GNOME, Tilix)
//  5. INSIDE_EMACS
//  6. TMUX / STY for multiplexers
//  7. LC_TERMINAL for iTerm2 over SSH
func DetectFrom(getenv Getenv) Terminal {
	if tp := getenv("TERM_PROGRAM"); tp != "" {
		switch strings.ToLower(tp) {
		case "ghostty":
			return TermGhostty
		case "kitty":
			return TermKitty
		case "wezterm":
			return TermWezTerm
		case "iterm.app":
			return TermITerm2
		case "apple_terminal":
			return TermAppleTerm
		case "vscode":
			return TermVSCode
		case "alacritty":
			return TermAlacritty
		case "tmux":
			return TermTmux
		}
	}

	if term := getenv("TERM"); term != "" {
		switch {
		case term == "xterm-ghostty":
			return TermGhostty
		case term == "xterm-kitty":
			return TermKitty
		case strings.HasPrefix(term, "alacritty"):
			return TermAlacritty
		case term == "linux":
			return TermLinux
		case term == "dumb":
			return TermDumb
		case strings.HasPrefix(term, "screen"):
			if getenv("STY") != "" {
				return TermScreen
			}
		}
	}

	if getenv("KITTY_WINDOW_ID") != "" {
		return TermKitty
	}
	if getenv("ITERM_SESSION_ID") != "" {
		return TermITerm2
	}
	if getenv("WEZTERM_EXECUTABLE") != "" {
		return TermWezTerm
	}

	if getenv("VTE_VERSION") != "" {
		if getenv("TILIX_ID") != "" {
			return TermTilix
		}
		return TermGNOME
	}

	if getenv("INSIDE_EMACS") != "" {
		return TermEmacs
	}

	// Multiplexers are checked late so the inner terminal wins.
	if getenv("TMUX") != "" {
		return TermTmux
	}
	if getenv("STY") != "" {
		return TermScreen
	}

	if getenv("LC_TERMINAL") == "iTerm2" {
		return TermITerm2
	}

	return TermGeneric
}
