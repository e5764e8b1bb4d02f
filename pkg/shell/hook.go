package shell

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// The hooks pass the values a child process cannot see for itself (last
// exit status, job count, directory stack) as environment variables of the
// prompt command.
var hookTemplates = map[ShellType]*template.Template{
	Bash: template.Must(template.New("bash").Parse(`__promptline_ps1() {
    local code=$?
    PS1="$(code=$code jobs=$(jobs -p | wc -l) hostname="${HOSTNAME}" uid="${UID}" dirs="$(dirs -p)" COLUMNS="${COLUMNS}" {{.Exe}} prompt --shell bash)"
    return $code
}
if [[ ";${PROMPT_COMMAND:-};" != *";__promptline_ps1;"* ]]; then
    PROMPT_COMMAND="__promptline_ps1${PROMPT_COMMAND:+;${PROMPT_COMMAND}}"
fi
`)),
	Zsh: template.Must(template.New("zsh").Parse(`__promptline_precmd() {
    local code=$?
    __promptline_ps1="$(code=$code jobs=${#jobstates} hostname="${HOST}" uid="${UID}" dirs="$(dirs -p)" COLUMNS="${COLUMNS}" {{.Exe}} prompt --shell zsh)"
}
setopt prompt_subst
typeset -ga precmd_functions
if (( ! ${precmd_functions[(I)__promptline_precmd]} )); then
    precmd_functions=(__promptline_precmd $precmd_functions)
fi
PROMPT='${__promptline_ps1}'
`)),
	Fish: template.Must(template.New("fish").Parse(`function fish_prompt
    set -l code $status
    env code=$code jobs=(count (jobs -p)) hostname=(prompt_hostname) uid=(id -u) dirs=(string join \n (dirs)) COLUMNS=$COLUMNS {{.Exe}} prompt --shell fish
end
`)),
}

// Hook returns the script that installs the prompt in sh. exe is the path of
// the promptline binary.
func Hook(sh ShellType, exe string) (string, error) {
	tmpl, ok := hookTemplates[sh]
	if !ok {
		return "", fmt.Errorf("shell: no prompt hook for %q", sh)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Exe string }{Exe: sh.Quote(exe)}); err != nil {
		return "", fmt.Errorf("shell: render %s hook: %w", sh, err)
	}
	return buf.String(), nil
}

// InitLine is the one line a user adds to their rc file.
func InitLine(sh ShellType, exe string) (string, error) {
	switch sh {
	case Bash, Zsh:
		return fmt.Sprintf("eval \"$(%s load %s)\"\n", sh.Quote(exe), sh), nil
	case Fish:
		return fmt.Sprintf("%s load fish | source\n", sh.Quote(exe)), nil
	default:
		return "", fmt.Errorf("shell: no prompt hook for %q", sh)
	}
}

// Quote single-quotes s for the shell.
func (sh ShellType) Quote(s string) string {
	if sh == Fish {
		return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
