package shell

import (
	"os/exec"
	"strings"
	"testing"
)

func TestParseShellName(t *testing.T) {
	tests := []struct {
		in   string
		want ShellType
	}{
		{"bash", Bash},
		{"-zsh", Zsh},
		{"ZSH", Zsh},
		{"fish", Fish},
		{"ksh93", Ksh},
		{"mksh", Ksh},
		{"tcsh", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shParseShellName(tt.in); got != tt.want {
			t.Errorf("shParseShellName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsLoginName(t *testing.T) {
	for name, want := range map[string]bool{
		"-zsh":  true,
		"-bash": true,
		"zsh":   false,
		"-":     false,
		"-vim":  false,
	} {
		if got := shIsLoginName(name); got != want {
			t.Errorf("shIsLoginName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	if sh, ok := Parse("none"); !ok || sh != Plain {
		t.Errorf("Parse(none) = %q, %v; want plain, true", sh, ok)
	}
	if _, ok := Parse("powershell"); ok {
		t.Error("Parse(powershell) reported ok")
	}
}

func TestDetectFromEnv(t *testing.T) {
	env := func(k string) string {
		if k == "SHELL" {
			return "/usr/local/bin/zsh"
		}
		return ""
	}
	if got := Detect(env); got != Zsh {
		t.Errorf("Detect() = %q, want zsh", got)
	}
}

func TestDetectFallsBackWithoutShell(t *testing.T) {
	got := Detect(func(string) string { return "" })
	if got == "" {
		t.Error("Detect() returned empty shell type")
	}
}

func TestWrap(t *testing.T) {
	seq := "\x1b[0m"
	tests := map[ShellType]string{
		Bash:  `\[` + seq + `\]`,
		Zsh:   "%{" + seq + "%}",
		Fish:  seq,
		Plain: seq,
	}
	for sh, want := range tests {
		if got := sh.Wrap(seq); got != want {
			t.Errorf("%s.Wrap() = %q, want %q", sh, got, want)
		}
	}
	if got := Bash.Wrap(""); got != "" {
		t.Errorf("Bash.Wrap(\"\") = %q, want empty", got)
	}
}

func TestEscape(t *testing.T) {
	in := "~/$HOME/`x`/100%/a\\b"
	tests := map[ShellType]string{
		Bash:  "~/\\$HOME/\\`x\\`/100%/a\\\\b",
		Zsh:   "~/$HOME/`x`/100%%/a\\b",
		Plain: in,
	}
	for sh, want := range tests {
		if got := sh.Escape(in); got != want {
			t.Errorf("%s.Escape(%q) = %q, want %q", sh, in, got, want)
		}
	}
}

func TestQuote(t *testing.T) {
	if got := Bash.Quote("/opt/it's/promptline"); got != `'/opt/it'\''s/promptline'` {
		t.Errorf("Bash.Quote = %s", got)
	}
	if got := Fish.Quote("/opt/it's/promptline"); got != `'/opt/it\'s/promptline'` {
		t.Errorf("Fish.Quote = %s", got)
	}
}

// balanced counts open/close pairs; the hooks keep every pair on the same
// quoting level so a raw count is enough.
func balanced(script string, open, close byte) bool {
	depth := 0
	for i := 0; i < len(script); i++ {
		switch script[i] {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func TestHook(t *testing.T) {
	for _, sh := range []ShellType{Bash, Zsh, Fish} {
		t.Run(string(sh), func(t *testing.T) {
			script, err := Hook(sh, "/usr/bin/promptline")
			if err != nil {
				t.Fatalf("Hook: %v", err)
			}
			for _, want := range []string{"'/usr/bin/promptline'", "prompt --shell " + string(sh), "code=", "jobs=", "dirs="} {
				if !strings.Contains(script, want) {
					t.Errorf("hook lacks %q:\n%s", want, script)
				}
			}
			for _, pair := range [][2]byte{{'{', '}'}, {'(', ')'}, {'[', ']'}} {
				if !balanced(script, pair[0], pair[1]) {
					t.Errorf("unbalanced %c%c in hook:\n%s", pair[0], pair[1], script)
				}
			}
		})
	}
	if _, err := Hook(Ksh, "x"); err == nil {
		t.Error("Hook(ksh) succeeded, want error")
	}
}

func TestInitLine(t *testing.T) {
	got, err := InitLine(Bash, "/bin/promptline")
	if err != nil {
		t.Fatal(err)
	}
	if want := "eval \"$('/bin/promptline' load bash)\"\n"; got != want {
		t.Errorf("InitLine(bash) = %q, want %q", got, want)
	}
	if _, err := InitLine(Plain, "x"); err == nil {
		t.Error("InitLine(plain) succeeded, want error")
	}
}

// TestHookParses feeds each hook to its own shell in no-exec mode. Shells
// missing from the test machine are skipped.
func TestHookParses(t *testing.T) {
	checks := map[ShellType][]string{
		Bash: {"bash", "-n"},
		Zsh:  {"zsh", "-n"},
		Fish: {"fish", "--no-execute"},
	}
	for sh, argv := range checks {
		t.Run(string(sh), func(t *testing.T) {
			bin, err := exec.LookPath(argv[0])
			if err != nil {
				t.Skipf("%s not installed", argv[0])
			}
			script, err := Hook(sh, "/usr/bin/promptline")
			if err != nil {
				t.Fatalf("Hook: %v", err)
			}
			cmd := exec.Command(bin, argv[1:]...)
			cmd.Stdin = strings.NewReader(script)
			if out, err := cmd.CombinedOutput(); err != nil {
				t.Errorf("%s rejects hook: %v\n%s\n%s", argv[0], err, out, script)
			}
		})
	}
}
