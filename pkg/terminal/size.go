package terminal

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// DefaultWidth is used when neither the terminal nor COLUMNS report a width.
const DefaultWidth = 80

// Width returns the terminal column count. It tries, in order:
//  1. the window size of stdout, then stderr, when they are terminals
//  2. COLUMNS from getenv
//  3. DefaultWidth
//
// Prompt commands run with stdout captured, so stderr is usually the one that
// answers.
func Width(getenv Getenv) int {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		fd := f.Fd()
		if !isatty.IsTerminal(fd) {
			continue
		}
		if cols := widthFromFd(fd); cols > 0 {
			return cols
		}
	}
	return WidthFromEnv(getenv)
}

// WidthFromEnv reads COLUMNS, falling back to DefaultWidth.
func WidthFromEnv(getenv Getenv) int {
	return envInt(getenv, "COLUMNS", DefaultWidth)
}

// envInt reads an integer from the named environment variable. Returns
// the fallback value if the variable is unset, empty, or not a valid
// positive integer.
func envInt(getenv Getenv, name string, fallback int) int {
	v := getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
