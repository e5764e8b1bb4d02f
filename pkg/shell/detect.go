package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// Detect returns the current shell type by examining the environment and, if
// necessary, the parent process. It checks in order:
//
//  1. $SHELL
//  2. the parent process name (see ProcessName)
//  3. Falls back to Bash as a safe default
func Detect(getenv func(string) string) ShellType {
	if sh := shDetectFromEnv(getenv); sh != "" {
		return sh
	}
	if sh := shDetectFromParent(); sh != "" {
		return sh
	}
	return Bash
}

// shDetectFromEnv checks the $SHELL environment variable and maps it to a
// ShellType.
func shDetectFromEnv(getenv func(string) string) ShellType {
	shellPath := getenv("SHELL")
	if shellPath == "" {
		return ""
	}
	return shParseShellName(filepath.Base(shellPath))
}

// shDetectFromParent identifies the parent process's shell.
func shDetectFromParent() ShellType {
	ppid := os.Getppid()
	if ppid <= 0 {
		return ""
	}
	name, err := ProcessName(ppid)
	if err != nil {
		return ""
	}
	return shParseShellName(name)
}

// IsLoginShell reports whether the parent process is a login shell, which
// by convention runs with a leading dash in its name.
func IsLoginShell() bool {
	name, err := ProcessName(os.Getppid())
	return err == nil && shIsLoginName(name)
}

func shIsLoginName(name string) bool {
	return strings.HasPrefix(name, "-") && shParseShellName(name) != ""
}

// shParseShellName maps a shell binary name (e.g. "zsh", "bash", "fish",
// "ksh", "ksh93") to a ShellType. Returns empty string if unrecognized.
func shParseShellName(name string) ShellType {
	// Strip leading dash for login shells (e.g., "-zsh").
	name = strings.TrimPrefix(name, "-")
	name = strings.ToLower(name)

	switch name {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	case "ksh", "ksh93", "mksh", "pdksh":
		return Ksh
	default:
		return ""
	}
}
