package gitstate

import (
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/filesystem/dotgit"
)

// ErrRefNotFound means a reference has neither a loose file nor a
// packed-refs entry. It is the only reference error that is not corruption.
var ErrRefNotFound = plumbing.ErrReferenceNotFound

// openStorage opens the repository's refs and objects. Per-worktree files
// (HEAD, pseudo-refs, logs/HEAD) come from the git dir and everything else
// from the common dir, so linked worktrees share branches and objects.
func openStorage(loc Location) *filesystem.Storage {
	fs := dotgit.NewRepositoryFilesystem(osfs.New(loc.GitDir), osfs.New(loc.CommonDir))
	return filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
}

// refStore resolves references, rejecting values that do not name an object.
type refStore struct {
	storer.ReferenceStorer
}

// resolve follows symbolic references to an object id. Chains that loop
// fail with storer.ErrMaxResolveRecursion.
func (s refStore) resolve(name plumbing.ReferenceName) (plumbing.Hash, error) {
	ref, err := storer.ResolveReference(s.ReferenceStorer, name)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return plumbing.ZeroHash, ErrRefNotFound
	case err != nil:
		return plumbing.ZeroHash, fmt.Errorf("gitstate: resolve %s: %w", name, err)
	}
	return checkedHash(ref)
}

// exists reports whether name resolves, treating only ErrRefNotFound as
// absence.
func (s refStore) exists(name plumbing.ReferenceName) (bool, error) {
	_, err := s.resolve(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrRefNotFound):
		return false, nil
	default:
		return false, err
	}
}

// checkedHash returns the object id of a hash reference. go-git decodes an
// unparsable ref file to the zero id, which git never stores.
func checkedHash(ref *plumbing.Reference) (plumbing.Hash, error) {
	if ref.Type() != plumbing.HashReference || ref.Hash().IsZero() {
		return plumbing.ZeroHash, fmt.Errorf("gitstate: malformed reference %s", ref.Name())
	}
	return ref.Hash(), nil
}
