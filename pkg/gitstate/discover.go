// Package gitstate reads a working tree's on-disk git metadata and derives
// the summary a prompt shows: branch, operation in progress, divergence
// from upstream and working-tree counts. It never runs git and never writes
// to the repository.
package gitstate

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Location is where a repository's pieces live on disk.
type Location struct {
	WorkTree  string // top of the checked-out tree
	GitDir    string // per-worktree metadata (HEAD, index, operation markers)
	CommonDir string // shared store (objects, refs, config); GitDir for main worktrees
}

// Linked reports whether the worktree is a linked worktree or submodule.
func (l Location) Linked() bool { return l.GitDir != l.CommonDir }

// Locate walks upward from start until it finds a `.git` directory or file,
// returning nil when the filesystem root is reached first. It depends only
// on start, never on the process working directory.
func Locate(start string) (*Location, error) {
	if !filepath.IsAbs(start) {
		return nil, fmt.Errorf("gitstate: start path %q is not absolute", start)
	}
	dir := filepath.Clean(start)
	for {
		loc, err := probe(dir)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			return loc, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// probe checks dir/.git. A directory that does not look like a repository
// is skipped so the walk continues; a malformed gitfile is an error.
func probe(dir string) (*Location, error) {
	dotGit := filepath.Join(dir, ".git")
	fi, err := os.Stat(dotGit)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("gitstate: stat %s: %w", dotGit, err)
	}

	gitDir := dotGit
	if !fi.IsDir() {
		gitDir, err = readGitFile(dotGit)
		if err != nil {
			return nil, err
		}
		if !isGitDir(gitDir) {
			return nil, fmt.Errorf("gitstate: %s points at %s, which is not a git directory", dotGit, gitDir)
		}
	} else if !isGitDir(gitDir) {
		return nil, nil
	}

	common, err := commonDir(gitDir)
	if err != nil {
		return nil, err
	}
	return &Location{WorkTree: dir, GitDir: gitDir, CommonDir: common}, nil
}

// readGitFile parses a `gitdir: <path>` file as written for linked
// worktrees and submodules. Relative paths are relative to the file.
func readGitFile(path string) (string, error) {
	line, err := readFirstLine(path)
	if err != nil {
		return "", err
	}
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("gitstate: invalid gitfile %s", path)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// commonDir follows gitDir/commondir when present.
func commonDir(gitDir string) (string, error) {
	line, err := readFirstLine(filepath.Join(gitDir, "commondir"))
	if errors.Is(err, os.ErrNotExist) {
		return gitDir, nil
	}
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(line) {
		line = filepath.Join(gitDir, line)
	}
	return filepath.Clean(line), nil
}

func isGitDir(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "HEAD")); err != nil {
		return false
	}
	for _, marker := range []string{"objects", "commondir"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// readFirstLine returns the first line of path without its line ending.
func readFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		return "", fmt.Errorf("gitstate: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r"), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("gitstate: read %s: %w", path, err)
	}
	return "", nil
}
