package gitstate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Status counts differing paths. Every path lands in at most one of
// Staged, Unstaged and Conflicted, with precedence conflicted > staged >
// unstaged; Untracked counts files absent from the index.
type Status struct {
	Staged     int
	Unstaged   int
	Untracked  int
	Conflicted int
}

// Dirty reports whether anything differs from HEAD.
func (s Status) Dirty() bool {
	return s.Staged+s.Unstaged+s.Untracked+s.Conflicted > 0
}

// stageMerged is the stage of an unconflicted index entry. go-git's
// index.Merged constant is 1, which is the ancestor stage on disk.
const stageMerged index.Stage = 0

type treeEntry struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

// statusReader compares HEAD, the index and the working tree.
type statusReader struct {
	loc            Location
	head           map[string]treeEntry
	untracked      bool
	globalExcludes bool
}

func (r *statusReader) read() (Status, error) {
	idx, indexTime, err := readIndex(filepath.Join(r.loc.GitDir, "index"))
	if err != nil {
		return Status{}, err
	}

	var st Status
	tracked := make(map[string]bool, len(idx.Entries))
	conflicted := map[string]bool{}
	for _, e := range idx.Entries {
		tracked[e.Name] = true
		if e.Stage != stageMerged {
			conflicted[e.Name] = true
		}
	}
	st.Conflicted = len(conflicted)

	for _, e := range idx.Entries {
		if e.Stage != stageMerged || conflicted[e.Name] {
			continue
		}
		if r.staged(e) {
			st.Staged++
			continue
		}
		modified, err := r.modified(e, indexTime)
		if err != nil {
			return Status{}, err
		}
		if modified {
			st.Unstaged++
		}
	}
	// deletions staged with `git rm`
	for name := range r.head {
		if !tracked[name] {
			st.Staged++
		}
	}

	if r.untracked {
		n, err := r.countUntracked(tracked)
		if err != nil {
			return Status{}, err
		}
		st.Untracked = n
	}
	return st, nil
}

// readIndex decodes the index file. A missing index is an empty one.
func readIndex(path string) (*index.Index, time.Time, error) {
	idx := &index.Index{}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return idx, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("gitstate: open index: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("gitstate: stat index: %w", err)
	}
	if err := index.NewDecoder(bufio.NewReader(f)).Decode(idx); err != nil {
		return nil, time.Time{}, fmt.Errorf("gitstate: decode index: %w", err)
	}
	return idx, fi.ModTime(), nil
}

// staged compares an index entry against HEAD. Intent-to-add entries are
// worktree changes, not staged ones.
func (r *statusReader) staged(e *index.Entry) bool {
	if e.IntentToAdd {
		return false
	}
	h, ok := r.head[e.Name]
	return !ok || h.hash != e.Hash || h.mode != e.Mode
}

// modified compares an index entry against the working tree. The stat
// signature decides unless it differs or the entry is racily clean (written
// in the same instant as the index), in which case the content is hashed.
func (r *statusReader) modified(e *index.Entry, indexTime time.Time) (bool, error) {
	if e.IntentToAdd {
		return true, nil
	}
	if e.SkipWorktree || e.Mode == filemode.Submodule {
		return false, nil
	}

	path := filepath.Join(r.loc.WorkTree, filepath.FromSlash(e.Name))
	fi, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) || isNotDir(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("gitstate: stat %s: %w", e.Name, err)
	}

	isLink := fi.Mode()&fs.ModeSymlink != 0
	switch {
	case isLink != (e.Mode == filemode.Symlink):
		return true, nil
	case fi.IsDir():
		return true, nil
	case !isLink && (fi.Mode()&0o111 != 0) != (e.Mode == filemode.Executable):
		return true, nil
	}

	racy := !indexTime.IsZero() && !e.ModifiedAt.Before(indexTime)
	if !racy && fi.Size() == int64(e.Size) && fi.ModTime().Equal(e.ModifiedAt) {
		return false, nil
	}

	var content []byte
	if isLink {
		target, err := os.Readlink(path)
		if err != nil {
			return false, fmt.Errorf("gitstate: readlink %s: %w", e.Name, err)
		}
		content = []byte(target)
	} else {
		content, err = os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("gitstate: read %s: %w", e.Name, err)
		}
	}
	return plumbing.ComputeHash(plumbing.BlobObject, content) != e.Hash, nil
}

// countUntracked walks the working tree counting files that are neither
// tracked nor ignored. Ignored directories are not entered; nested
// repositories count as one entry.
func (r *statusReader) countUntracked(tracked map[string]bool) (int, error) {
	trackedDirs := map[string]bool{}
	for name := range tracked {
		for dir := filepath.Dir(filepath.FromSlash(name)); dir != "."; dir = filepath.Dir(dir) {
			trackedDirs[filepath.ToSlash(dir)] = true
		}
	}

	var patterns []gitignore.Pattern
	if r.globalExcludes {
		// unreadable global config means no global patterns
		if ps, err := gitignore.LoadGlobalPatterns(osfs.New("/")); err == nil {
			patterns = append(patterns, ps...)
		}
	}
	exclude, err := readIgnoreFile(filepath.Join(r.loc.GitDir, "info", "exclude"), nil)
	if err != nil {
		return 0, err
	}
	patterns = append(patterns, exclude...)

	w := untrackedWalker{root: r.loc.WorkTree, tracked: tracked, trackedDirs: trackedDirs}
	return w.walk(nil, patterns)
}

type untrackedWalker struct {
	root        string
	tracked     map[string]bool
	trackedDirs map[string]bool
}

func (w *untrackedWalker) walk(dir []string, inherited []gitignore.Pattern) (int, error) {
	abs := filepath.Join(append([]string{w.root}, dir...)...)
	entries, err := os.ReadDir(abs)
	if err != nil {
		return 0, fmt.Errorf("gitstate: read dir %s: %w", abs, err)
	}

	local, err := readIgnoreFile(filepath.Join(abs, ".gitignore"), dir)
	if err != nil {
		return 0, err
	}
	patterns := inherited
	if len(local) > 0 {
		patterns = append(append([]gitignore.Pattern(nil), inherited...), local...)
	}
	matcher := gitignore.NewMatcher(patterns)

	count := 0
	for _, e := range entries {
		name := e.Name()
		if len(dir) == 0 && name == ".git" {
			continue
		}
		path := append(append([]string(nil), dir...), name)
		rel := strings.Join(path, "/")
		if w.tracked[rel] {
			continue
		}
		if !e.IsDir() {
			if !matcher.Match(path, false) {
				count++
			}
			continue
		}
		if matcher.Match(path, true) {
			continue
		}
		if !w.trackedDirs[rel] {
			nested, err := pathExists(filepath.Join(abs, name, ".git"))
			if err != nil {
				return 0, err
			}
			if nested {
				count++
				continue
			}
		}
		n, err := w.walk(path, patterns)
		if err != nil {
			return 0, err
		}
		count += n
	}
	return count, nil
}

// readIgnoreFile parses an ignore file whose patterns apply below domain.
// A missing file has no patterns.
func readIgnoreFile(path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) || isNotDir(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gitstate: open %s: %w", path, err)
	}
	defer f.Close()

	var ps []gitignore.Pattern
	rd := bufio.NewReader(f)
	for {
		line, err := rd.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#") {
			ps = append(ps, gitignore.ParsePattern(line, domain))
		}
		if err == io.EOF {
			return ps, nil
		}
		if err != nil {
			return nil, fmt.Errorf("gitstate: read %s: %w", path, err)
		}
	}
}

// headTree flattens a commit's tree into path → entry, including gitlinks.
func headTree(c *object.Commit) (map[string]treeEntry, error) {
	out := map[string]treeEntry{}
	if c == nil {
		return out, nil
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("gitstate: load tree of %s: %w", c.Hash, err)
	}
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("gitstate: walk tree: %w", err)
		}
		if entry.Mode == filemode.Dir {
			continue
		}
		out[name] = treeEntry{hash: entry.Hash, mode: entry.Mode}
	}
}
