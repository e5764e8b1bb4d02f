package gitstate

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// AheadBehind counts commits reachable from only one side of a branch and
// its upstream.
type AheadBehind struct {
	Ahead  int
	Behind int
}

const (
	fromLocal uint8 = 1 << iota
	fromUpstream
	fromBoth = fromLocal | fromUpstream
)

// divergence walks parent links from both tips at once. The frontier is
// ordered by committer time, newest first, and every commit carries the set
// of tips it is reachable from; a commit is queued again whenever it gains a
// flag, so flags reach ancestors that were first visited from one side.
// The walk ends once nothing queued is one-sided and the newest queued
// commit is strictly older than every one-sided commit seen so far: below
// that point no ancestor can still turn a one-sided commit into a common
// one. Skewed clocks above that point only delay the stop.
type divergence struct {
	store   storer.EncodedObjectStorer
	shallow map[plumbing.Hash]bool
	flags   map[plumbing.Hash]uint8
	when    map[plumbing.Hash]time.Time
	parents map[plumbing.Hash][]plumbing.Hash
	queue   frontier
}

func countAheadBehind(store storer.EncodedObjectStorer, local, upstream plumbing.Hash, shallow map[plumbing.Hash]bool) (AheadBehind, error) {
	if local == upstream {
		return AheadBehind{}, nil
	}
	d := &divergence{
		store:   store,
		shallow: shallow,
		flags:   map[plumbing.Hash]uint8{},
		when:    map[plumbing.Hash]time.Time{},
		parents: map[plumbing.Hash][]plumbing.Hash{},
	}
	if err := d.mark(local, fromLocal); err != nil {
		return AheadBehind{}, err
	}
	if err := d.mark(upstream, fromUpstream); err != nil {
		return AheadBehind{}, err
	}

	for d.queue.Len() > 0 {
		it := heap.Pop(&d.queue).(frontierItem)
		h := it.hash
		f := d.flags[h]
		if f == fromBoth && d.settled(it.when) {
			break
		}
		for _, p := range d.parents[h] {
			if d.flags[p]|f == d.flags[p] {
				continue
			}
			if err := d.mark(p, f); err != nil {
				return AheadBehind{}, err
			}
		}
	}

	var ab AheadBehind
	for _, f := range d.flags {
		switch f {
		case fromLocal:
			ab.Ahead++
		case fromUpstream:
			ab.Behind++
		}
	}
	return ab, nil
}

// mark adds flag to h, loading the commit on first sight, and queues it.
func (d *divergence) mark(h plumbing.Hash, flag uint8) error {
	if _, seen := d.when[h]; !seen {
		c, err := object.GetCommit(d.store, h)
		if err != nil {
			return fmt.Errorf("gitstate: load commit %s: %w", h, err)
		}
		d.when[h] = c.Committer.When
		// shallow boundary commits have parents that were never fetched
		parents := c.ParentHashes
		if d.shallow[h] {
			parents = nil
		}
		d.parents[h] = parents
	}
	d.flags[h] |= flag
	heap.Push(&d.queue, frontierItem{hash: h, when: d.when[h]})
	return nil
}

// settled reports whether the walk can stop at a common commit dated when:
// every queued commit is reachable from both tips and every one-sided commit
// is newer than when.
func (d *divergence) settled(when time.Time) bool {
	for _, it := range d.queue.items {
		if d.flags[it.hash] != fromBoth {
			return false
		}
	}
	for h, f := range d.flags {
		if f != fromBoth && !d.when[h].After(when) {
			return false
		}
	}
	return true
}

type frontierItem struct {
	hash plumbing.Hash
	when time.Time
}

// frontier is a max-heap on committer time.
type frontier struct{ items []frontierItem }

func (q frontier) Len() int { return len(q.items) }
func (q frontier) Less(i, j int) bool {
	return q.items[i].when.After(q.items[j].when)
}
func (q frontier) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *frontier) Push(x any)   { q.items = append(q.items, x.(frontierItem)) }
func (q *frontier) Pop() any {
	old := q.items
	it := old[len(old)-1]
	q.items = old[:len(old)-1]
	return it
}
