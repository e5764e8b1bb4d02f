package gitstate

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// HeadKind says what HEAD points at.
type HeadKind int

const (
	// HeadBranch is a symbolic HEAD whose branch has a commit.
	HeadBranch HeadKind = iota
	// HeadDetached is HEAD holding a commit id directly.
	HeadDetached
	// HeadUnborn is a symbolic HEAD whose branch has no commit yet.
	HeadUnborn
)

func (k HeadKind) String() string {
	switch k {
	case HeadBranch:
		return "branch"
	case HeadDetached:
		return "detached"
	case HeadUnborn:
		return "unborn"
	default:
		return "unknown"
	}
}

// Head is the resolved state of HEAD. Branch is set for HeadBranch and
// HeadUnborn, ShortID for HeadDetached. Hash is zero when unborn.
type Head struct {
	Kind    HeadKind
	Branch  string
	ShortID string
	Hash    plumbing.Hash
}

// Name is what a prompt shows for HEAD.
func (h Head) Name() string {
	if h.Kind == HeadDetached {
		return h.ShortID
	}
	return h.Branch
}

const defaultShortIDLength = 7

func readHead(refs refStore, shortLen int) (Head, error) {
	ref, err := refs.Reference(plumbing.HEAD)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return Head{}, fmt.Errorf("gitstate: HEAD is missing")
	case err != nil:
		return Head{}, fmt.Errorf("gitstate: read HEAD: %w", err)
	}

	if ref.Type() != plumbing.SymbolicReference {
		h, err := checkedHash(ref)
		if err != nil {
			return Head{}, err
		}
		return Head{Kind: HeadDetached, ShortID: shortID(h, shortLen), Hash: h}, nil
	}

	target := ref.Target()
	h, err := refs.resolve(target)
	switch {
	case errors.Is(err, ErrRefNotFound):
		return Head{Kind: HeadUnborn, Branch: target.Short()}, nil
	case err != nil:
		return Head{}, err
	}
	return Head{Kind: HeadBranch, Branch: target.Short(), Hash: h}, nil
}

func shortID(h plumbing.Hash, n int) string {
	s := h.String()
	if n <= 0 {
		n = defaultShortIDLength
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
