package shell

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ProcessName returns the command name of pid as reported by ps(1).
func ProcessName(pid int) (string, error) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "comm=").Output()
	if err != nil {
		return "", fmt.Errorf("shell: process name of %d: %w", pid, err)
	}
	name := strings.TrimSpace(string(out))
	// ps prints login shells as "-zsh"; keep the dash, drop any directory.
	dash := strings.HasPrefix(name, "-")
	name = filepath.Base(strings.TrimPrefix(name, "-"))
	if dash {
		name = "-" + name
	}
	return name, nil
}
