//go:build !linux && !darwin

package shell

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessName returns the command name of pid via gopsutil.
func ProcessName(pid int) (string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", fmt.Errorf("shell: process %d: %w", pid, err)
	}
	name, err := p.Name()
	if err != nil {
		return "", fmt.Errorf("shell: process name of %d: %w", pid, err)
	}
	return name, nil
}
