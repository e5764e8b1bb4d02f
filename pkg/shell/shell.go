// Package shell knows the login shells a prompt is rendered for: how to
// recognize them, how each expects non-printing sequences to be marked, and
// the hook that installs the prompt.
package shell

import "strings"

// ShellType names a supported interactive shell.
type ShellType string

const (
	Bash ShellType = "bash"
	Zsh  ShellType = "zsh"
	Fish ShellType = "fish"
	Ksh  ShellType = "ksh"
	// Plain emits raw escapes with no wrappers, for `print`-style use.
	Plain ShellType = "plain"
)

// Parse maps a user-supplied name to a ShellType. ok is false for unknown
// names.
func Parse(name string) (ShellType, bool) {
	if name == string(Plain) || name == "none" {
		return Plain, true
	}
	sh := shParseShellName(name)
	return sh, sh != ""
}

// Wrap marks an escape sequence as zero-width for the shell's line editor.
func (s ShellType) Wrap(seq string) string {
	if seq == "" {
		return ""
	}
	switch s {
	case Bash:
		return `\[` + seq + `\]`
	case Zsh:
		return "%{" + seq + "%}"
	default:
		return seq
	}
}

var (
	bashEscaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, "`", "\\`")
	zshEscaper  = strings.NewReplacer("%", "%%")
)

// Escape quotes visible text so the shell's prompt expansion prints it
// verbatim.
func (s ShellType) Escape(text string) string {
	switch s {
	case Bash:
		return bashEscaper.Replace(text)
	case Zsh:
		return zshEscaper.Replace(text)
	default:
		return text
	}
}
