package gitstate

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountAheadBehind(t *testing.T) {
	f := newRepoFixture(t)
	base := f.commitObject("base")
	l1 := f.commitObject("l1", base)
	l2 := f.commitObject("l2", l1)
	l3 := f.commitObject("l3", l2)
	u1 := f.commitObject("u1", base)
	u2 := f.commitObject("u2", u1)
	merge := f.commitObject("merge", l3, u2)

	tests := []struct {
		name            string
		local, upstream plumbing.Hash
		want            AheadBehind
	}{
		{"equal", l2, l2, AheadBehind{}},
		{"ahead only", l3, base, AheadBehind{Ahead: 3}},
		{"behind only", base, u2, AheadBehind{Behind: 2}},
		{"diverged", l3, u2, AheadBehind{Ahead: 3, Behind: 2}},
		{"after merge", merge, u2, AheadBehind{Ahead: 4}},
		{"upstream merged local", l1, merge, AheadBehind{Behind: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := countAheadBehind(f.repo.Storer, tt.local, tt.upstream, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountAheadBehindUnrelatedHistories(t *testing.T) {
	f := newRepoFixture(t)
	a1 := f.commitObject("a1")
	a2 := f.commitObject("a2", a1)
	b1 := f.commitObject("b1")

	got, err := countAheadBehind(f.repo.Storer, a2, b1, nil)
	require.NoError(t, err)
	assert.Equal(t, AheadBehind{Ahead: 2, Behind: 1}, got)
}

func TestCountAheadBehindClockSkew(t *testing.T) {
	f := newRepoFixture(t)
	at := func(minute int) time.Time {
		return time.Date(2024, 3, 1, 12, minute, 0, 0, time.UTC)
	}
	// the upstream commit claims to predate its own parent
	d := f.commitObjectAt(at(30), "d")
	x := f.commitObjectAt(at(40), "x", d)
	l := f.commitObjectAt(at(50), "l", x)
	u := f.commitObjectAt(at(10), "u", x)

	got, err := countAheadBehind(f.repo.Storer, l, u, nil)
	require.NoError(t, err)
	assert.Equal(t, AheadBehind{Ahead: 1, Behind: 1}, got)

	got, err = countAheadBehind(f.repo.Storer, u, l, nil)
	require.NoError(t, err)
	assert.Equal(t, AheadBehind{Ahead: 1, Behind: 1}, got)
}

func TestCountAheadBehindEqualTimestamps(t *testing.T) {
	f := newRepoFixture(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	base := f.commitObjectAt(now, "base")
	mid := f.commitObjectAt(now, "mid", base)
	l := f.commitObjectAt(now, "l", mid)
	u := f.commitObjectAt(now, "u", mid)
	l2 := f.commitObjectAt(now, "l2", l)

	got, err := countAheadBehind(f.repo.Storer, l2, u, nil)
	require.NoError(t, err)
	assert.Equal(t, AheadBehind{Ahead: 2, Behind: 1}, got)
}

func TestCountAheadBehindStopsAtShallowBoundary(t *testing.T) {
	f := newRepoFixture(t)
	ghost := plumbing.NewHash("2222222222222222222222222222222222222222")
	boundary := f.commitObject("boundary", ghost)
	other := f.commitObject("other")

	_, err := countAheadBehind(f.repo.Storer, boundary, other, nil)
	require.Error(t, err, "walking past the boundary loads a commit that was never fetched")

	got, err := countAheadBehind(f.repo.Storer, boundary, other, map[plumbing.Hash]bool{boundary: true})
	require.NoError(t, err)
	assert.Equal(t, AheadBehind{Ahead: 1, Behind: 1}, got)
}

func TestCountAheadBehindMissingCommit(t *testing.T) {
	f := newRepoFixture(t)
	base := f.commitObject("base")
	missing := plumbing.NewHash("1111111111111111111111111111111111111111")

	_, err := countAheadBehind(f.repo.Storer, base, missing, nil)
	assert.Error(t, err)
}

func TestDetectAheadBehind(t *testing.T) {
	f := newRepoFixture(t)
	f.write("a.txt", "a\n")
	base := f.commit("base", "a.txt")
	f.trackOrigin()

	// upstream configured but never fetched
	st := f.detect(Options{})
	assert.Equal(t, "origin/main", st.Upstream)
	assert.Nil(t, st.AheadBehind)

	f.setRef(plumbing.NewRemoteReferenceName("origin", "main"), base)
	st = f.detect(Options{})
	require.NotNil(t, st.AheadBehind)
	assert.Equal(t, AheadBehind{}, *st.AheadBehind)

	f.write("a.txt", "a\nb\n")
	f.commit("local 1", "a.txt")
	f.write("a.txt", "a\nb\nc\n")
	f.commit("local 2", "a.txt")
	f.setRef(plumbing.NewRemoteReferenceName("origin", "main"), f.commitObject("remote", base))

	st = f.detect(Options{})
	require.NotNil(t, st.AheadBehind)
	assert.Equal(t, AheadBehind{Ahead: 2, Behind: 1}, *st.AheadBehind)
}

func TestDetectWithoutUpstream(t *testing.T) {
	f := newRepoFixture(t)
	f.write("a.txt", "a\n")
	f.commit("init", "a.txt")

	st := f.detect(Options{})
	assert.Empty(t, st.Upstream)
	assert.Nil(t, st.AheadBehind)
}

func TestDetectLocalUpstream(t *testing.T) {
	f := newRepoFixture(t)
	f.write("a.txt", "a\n")
	base := f.commit("init", "a.txt")
	f.setRef(plumbing.NewBranchReferenceName("trunk"), base)
	f.appendConfig("[branch \"main\"]\n\tremote = .\n\tmerge = refs/heads/trunk\n")

	f.write("a.txt", "b\n")
	f.commit("next", "a.txt")

	st := f.detect(Options{})
	assert.Equal(t, "trunk", st.Upstream)
	require.NotNil(t, st.AheadBehind)
	assert.Equal(t, AheadBehind{Ahead: 1}, *st.AheadBehind)
}
