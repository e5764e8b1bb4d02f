package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ProcessName returns the command name of pid, read from /proc/<pid>/comm.
func ProcessName(pid int) (string, error) {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/comm")
	if err != nil {
		return "", fmt.Errorf("shell: process name of %d: %w", pid, err)
	}
	return strings.TrimSpace(string(data)), nil
}
