package gitstate

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Options tunes detection. The zero value is usable.
type Options struct {
	// ShortIDLength is the detached-HEAD id length. Zero defers to
	// core.abbrev, then 7.
	ShortIDLength int
	// OperationPriority orders operation markers. Empty means
	// DefaultOperationPriority.
	OperationPriority []OperationKind
	// SkipUntracked disables the working-tree walk for untracked files.
	SkipUntracked bool
	// GlobalExcludes also applies core.excludesFile from the user's
	// global git config.
	GlobalExcludes bool
}

// State is everything the git segment shows about one repository.
type State struct {
	Location  Location
	Head      Head
	Operation Operation
	// Upstream is the short name of the configured upstream, empty when
	// none is configured.
	Upstream string
	// AheadBehind is nil when there is no upstream or its ref is missing.
	AheadBehind *AheadBehind
	Status      Status
	Stash       int
}

// Detect inspects the repository containing start. It returns nil, nil
// when start is not inside a repository. Any I/O or parse failure aborts
// the whole detection; a partially filled State is never returned.
func Detect(start string, opts Options) (*State, error) {
	loc, err := Locate(start)
	if err != nil || loc == nil {
		return nil, err
	}

	cfg, err := loadRepoConfig(loc.CommonDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.checkSupported(); err != nil {
		return nil, err
	}

	shortLen := opts.ShortIDLength
	if shortLen <= 0 {
		shortLen = cfg.abbrev()
	}
	repo := openStorage(*loc)
	defer repo.Close()

	refs := refStore{repo}
	head, err := readHead(refs, shortLen)
	if err != nil {
		return nil, err
	}

	st := &State{Location: *loc, Head: head}

	if st.Operation, err = detectOperation(loc.GitDir, opts.OperationPriority); err != nil {
		return nil, err
	}

	if head.Kind == HeadBranch {
		if err := st.compareUpstream(cfg, repo); err != nil {
			return nil, err
		}
	}

	var headCommit *object.Commit
	if head.Kind != HeadUnborn {
		if headCommit, err = object.GetCommit(repo, head.Hash); err != nil {
			return nil, fmt.Errorf("gitstate: load HEAD commit %s: %w", head.Hash, err)
		}
	}
	tree, err := headTree(headCommit)
	if err != nil {
		return nil, err
	}
	sr := statusReader{
		loc:            *loc,
		head:           tree,
		untracked:      !opts.SkipUntracked && !cfg.untrackedDisabled(),
		globalExcludes: opts.GlobalExcludes,
	}
	if st.Status, err = sr.read(); err != nil {
		return nil, err
	}

	if st.Stash, err = countStash(repo); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *State) compareUpstream(cfg *repoConfig, repo *filesystem.Storage) error {
	name, ok := cfg.upstream(st.Head.Branch)
	if !ok {
		return nil
	}
	st.Upstream = name.Short()

	tip, err := refStore{repo}.resolve(name)
	if errors.Is(err, ErrRefNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	shallow, err := shallowBoundary(repo)
	if err != nil {
		return err
	}
	ab, err := countAheadBehind(repo, st.Head.Hash, tip, shallow)
	if err != nil {
		return err
	}
	st.AheadBehind = &ab
	return nil
}
