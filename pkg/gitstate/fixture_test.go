package gitstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// repoFixture is a throwaway repository on branch main, built with go-git
// so tests never depend on a git binary.
type repoFixture struct {
	t     testing.TB
	dir   string
	repo  *git.Repository
	clock time.Time
}

func newRepoFixture(t testing.TB) *repoFixture {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))
	require.NoError(t, repo.Storer.SetReference(head))

	return &repoFixture{
		t:     t,
		dir:   dir,
		repo:  repo,
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *repoFixture) gitDir() string { return filepath.Join(f.dir, ".git") }

func (f *repoFixture) write(rel, content string) {
	f.t.Helper()
	path := filepath.Join(f.dir, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *repoFixture) signature() *object.Signature {
	f.clock = f.clock.Add(time.Minute)
	return &object.Signature{Name: "Prompt Tester", Email: "tester@example.com", When: f.clock}
}

// commit stages paths and commits them on the current branch.
func (f *repoFixture) commit(msg string, paths ...string) plumbing.Hash {
	f.t.Helper()
	wt, err := f.repo.Worktree()
	require.NoError(f.t, err)
	for _, p := range paths {
		_, err := wt.Add(p)
		require.NoError(f.t, err)
	}
	h, err := wt.Commit(msg, &git.CommitOptions{Author: f.signature(), AllowEmptyCommits: true})
	require.NoError(f.t, err)
	return h
}

// commitObject writes a commit without touching the index, worktree or
// any ref. It reuses the first parent's tree when that parent exists.
func (f *repoFixture) commitObject(msg string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	return f.commitObjectAt(f.signature().When, msg, parents...)
}

// commitObjectAt is commitObject with a fixed committer time.
func (f *repoFixture) commitObjectAt(when time.Time, msg string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	var tree plumbing.Hash
	if len(parents) > 0 {
		if p, err := f.repo.CommitObject(parents[0]); err == nil {
			tree = p.TreeHash
		}
	}
	sig := object.Signature{Name: "Prompt Tester", Email: "tester@example.com", When: when}
	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg,
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := f.repo.Storer.NewEncodedObject()
	require.NoError(f.t, c.Encode(obj))
	h, err := f.repo.Storer.SetEncodedObject(obj)
	require.NoError(f.t, err)
	return h
}

func (f *repoFixture) setRef(name plumbing.ReferenceName, h plumbing.Hash) {
	f.t.Helper()
	require.NoError(f.t, f.repo.Storer.SetReference(plumbing.NewHashReference(name, h)))
}

// trackOrigin configures main to track origin/main.
func (f *repoFixture) trackOrigin() {
	f.t.Helper()
	cfg, err := f.repo.Config()
	require.NoError(f.t, err)
	cfg.Remotes["origin"] = &gitconfig.RemoteConfig{
		Name:  "origin",
		URLs:  []string{"https://example.com/prompt.git"},
		Fetch: []gitconfig.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
	}
	cfg.Branches["main"] = &gitconfig.Branch{
		Name:   "main",
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName("main"),
	}
	require.NoError(f.t, f.repo.SetConfig(cfg))
}

// appendConfig adds raw text to the repository config file.
func (f *repoFixture) appendConfig(text string) {
	f.t.Helper()
	fh, err := os.OpenFile(filepath.Join(f.gitDir(), "config"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(f.t, err)
	defer fh.Close()
	_, err = fh.WriteString("\n" + text)
	require.NoError(f.t, err)
}

func (f *repoFixture) detect(opts Options) *State {
	f.t.Helper()
	st, err := Detect(f.dir, opts)
	require.NoError(f.t, err)
	require.NotNil(f.t, st)
	return st
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
