package terminal

import (
	"testing"

	"github.com/muesli/termenv"
)

// envMap adapts a fixed set of variables to Getenv so tests never touch the
// process environment.
func envMap(kv ...string) Getenv {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return func(k string) string { return m[k] }
}

// --- Terminal Detection Tests ---

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name string
		env  Getenv
		want Terminal
	}{
		{"ghostty term program", envMap("TERM_PROGRAM", "ghostty"), TermGhostty},
		{"ghostty term", envMap("TERM", "xterm-ghostty"), TermGhostty},
		{"kitty term program", envMap("TERM_PROGRAM", "kitty"), TermKitty},
		{"kitty term", envMap("TERM", "xterm-kitty"), TermKitty},
		{"kitty window id", envMap("KITTY_WINDOW_ID", "1"), TermKitty},
		{"wezterm", envMap("TERM_PROGRAM", "WezTerm"), TermWezTerm},
		{"wezterm executable", envMap("WEZTERM_EXECUTABLE", "/usr/bin/wezterm"), TermWezTerm},
		{"iterm2", envMap("TERM_PROGRAM", "iTerm.app"), TermITerm2},
		{"iterm2 session", envMap("ITERM_SESSION_ID", "w0t0p0"), TermITerm2},
		{"iterm2 over ssh", envMap("LC_TERMINAL", "iTerm2"), TermITerm2},
		{"apple terminal", envMap("TERM_PROGRAM", "Apple_Terminal"), TermAppleTerm},
		{"alacritty", envMap("TERM", "alacritty"), TermAlacritty},
		{"tilix", envMap("VTE_VERSION", "7200", "TILIX_ID", "abc"), TermTilix},
		{"gnome", envMap("VTE_VERSION", "7200"), TermGNOME},
		{"vscode", envMap("TERM_PROGRAM", "vscode"), TermVSCode},
		{"emacs", envMap("INSIDE_EMACS", "29.1,vterm"), TermEmacs},
		{"tmux", envMap("TMUX", "/tmp/tmux-1000/default,1,0"), TermTmux},
		{"screen", envMap("TERM", "screen-256color", "STY", "1234.pts-0"), TermScreen},
		{"linux console", envMap("TERM", "linux"), TermLinux},
		{"dumb", envMap("TERM", "dumb"), TermDumb},
		{"generic", envMap(), TermGeneric},
		{"term program beats tmux", envMap("TERM_PROGRAM", "ghostty", "TMUX", "x"), TermGhostty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFrom(tt.env); got != tt.want {
				t.Errorf("DetectFrom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_ProcessEnv(t *testing.T) {
	t.Setenv("TERM_PROGRAM", "WezTerm")
	if got := Detect(); got != TermWezTerm {
		t.Errorf("Detect() = %v, want %v", got, TermWezTerm)
	}
}

func TestTerminal_String(t *testing.T) {
	if got := TermGhostty.String(); got != "ghostty" {
		t.Errorf("TermGhostty.String() = %q, want %q", got, "ghostty")
	}
	if got := Terminal(99).String(); got != "unknown" {
		t.Errorf("Terminal(99).String() = %q, want %q", got, "unknown")
	}
}

// --- Capabilities Tests ---

func TestProbe(t *testing.T) {
	caps := Probe(envMap("TERM_PROGRAM", "ghostty", "SSH_TTY", "/dev/pts/1", "TMUX", "x"))
	if caps.Term != TermGhostty {
		t.Errorf("Term = %v, want ghostty", caps.Term)
	}
	if !caps.TrueColor {
		t.Error("TrueColor = false, want true for ghostty")
	}
	if !caps.SSH {
		t.Error("SSH = false, want true")
	}
	if !caps.Mux {
		t.Error("Mux = false, want true")
	}
}

func TestProbe_COLORTERM(t *testing.T) {
	if !Probe(envMap("COLORTERM", "24bit")).TrueColor {
		t.Error("COLORTERM=24bit did not enable true color")
	}
	if Probe(envMap("TERM", "xterm-256color")).TrueColor {
		t.Error("plain xterm-256color reported true color")
	}
}

func TestCapabilitiesProfile(t *testing.T) {
	tests := []struct {
		name string
		env  Getenv
		want termenv.Profile
	}{
		{"truecolor", envMap("COLORTERM", "truecolor"), termenv.TrueColor},
		{"256 default", envMap("TERM", "xterm-256color"), termenv.ANSI256},
		{"linux console", envMap("TERM", "linux"), termenv.ANSI},
		{"no color", envMap("NO_COLOR", "1", "COLORTERM", "truecolor"), termenv.Ascii},
		{"dumb", envMap("TERM", "dumb"), termenv.Ascii},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Probe(tt.env).Profile(); got != tt.want {
				t.Errorf("Profile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseProfile(t *testing.T) {
	for in, want := range map[string]termenv.Profile{
		"truecolor": termenv.TrueColor,
		"256":       termenv.ANSI256,
		"ANSI":      termenv.ANSI,
		"none":      termenv.Ascii,
	} {
		got, ok := ParseProfile(in)
		if !ok || got != want {
			t.Errorf("ParseProfile(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParseProfile("auto"); ok {
		t.Error("ParseProfile(\"auto\") reported ok")
	}
}

// --- Size Tests ---

func TestWidthFromEnv(t *testing.T) {
	if got := WidthFromEnv(envMap("COLUMNS", "132")); got != 132 {
		t.Errorf("WidthFromEnv(132) = %d, want 132", got)
	}
	if got := WidthFromEnv(envMap()); got != DefaultWidth {
		t.Errorf("WidthFromEnv(unset) = %d, want %d", got, DefaultWidth)
	}
}

func TestWidth_Positive(t *testing.T) {
	// The test runner may or may not have a TTY; either way the answer is
	// positive.
	if got := Width(envMap()); got <= 0 {
		t.Errorf("Width() = %d, want > 0", got)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		val  string
		want int
	}{
		{"42", 42},
		{"invalid", 10},
		{"-5", 10},
		{"", 10},
	}
	for _, tt := range tests {
		if got := envInt(envMap("X", tt.val), "X", 10); got != tt.want {
			t.Errorf("envInt(%q) = %d, want %d", tt.val, got, tt.want)
		}
	}
}
