package segment

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
)

// Outcome is how a provider's last run ended.
type Outcome int

const (
	NotRun Outcome = iota
	Shown
	Abstained
	Failed
	Panicked
)

func (o Outcome) String() string {
	switch o {
	case Shown:
		return "shown"
	case Abstained:
		return "abstained"
	case Failed:
		return "failed"
	case Panicked:
		return "panicked"
	default:
		return "not run"
	}
}

// Status records the last run of one configured segment.
type Status struct {
	Index     int
	Kind      string
	Outcome   Outcome
	Fragments int
	Latency   time.Duration
	Err       error
}

type entry struct {
	kind     string
	provider Provider
}

// Registry is the ordered list of active providers for one render, with the
// outcome of each provider's last run. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  []entry
	statuses []Status
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// FromSpecs builds a registry from configured segments in order.
func FromSpecs(specs []Spec) (*Registry, error) {
	r := NewRegistry()
	for i, spec := range specs {
		p, err := New(spec)
		if err != nil {
			return nil, fmt.Errorf("segments[%d]: %w", i, err)
		}
		r.Add(spec.Kind, p)
	}
	return r, nil
}

// Add appends a provider.
func (r *Registry) Add(kind string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, Status{Index: len(r.entries), Kind: kind})
	r.entries = append(r.entries, entry{kind: kind, provider: p})
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Compute runs every provider in order and concatenates their fragments.
// Failures never stop the render.
func (r *Registry) Compute(c *Context) []render.Fragment {
	var out []render.Fragment
	for i := 0; i < r.Len(); i++ {
		frags, _ := r.ComputeOne(c, i)
		out = append(out, frags...)
	}
	return out
}

// ComputeOne runs the provider at idx.
func (r *Registry) ComputeOne(c *Context, idx int) ([]render.Fragment, error) {
	r.mu.RLock()
	if idx < 0 || idx >= len(r.entries) {
		n := len(r.entries)
		r.mu.RUnlock()
		return nil, fmt.Errorf("segment index %d out of range [0,%d)", idx, n)
	}
	e := r.entries[idx]
	r.mu.RUnlock()

	frags, st := Run(c, e.kind, e.provider)
	st.Index = idx
	r.updateStatus(idx, st)
	return frags, nil
}

// Statuses returns a copy of every status in configured order.
func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Status, len(r.statuses))
	copy(out, r.statuses)
	return out
}

func (r *Registry) updateStatus(idx int, st Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx < len(r.statuses) {
		r.statuses[idx] = st
	}
}

// Run invokes p behind the provider boundary: errors and panics are logged
// and become abstention, and empty fragments are dropped.
func Run(c *Context, kind string, p Provider) (frags []render.Fragment, st Status) {
	st.Kind = kind
	start := time.Now()
	defer func() {
		st.Latency = time.Since(start)
		if v := recover(); v != nil {
			frags = nil
			st.Outcome = Panicked
			st.Err = fmt.Errorf("panic: %v", v)
			c.logger().Error("segment panicked", "kind", kind, "panic", v, "stack", string(debug.Stack()))
		}
	}()

	out, err := p.Compute(c)
	if err != nil {
		st.Outcome = Failed
		st.Err = err
		c.logger().Warn("segment failed", "kind", kind, "err", err)
		return nil, st
	}
	for _, f := range out {
		if !f.Empty() {
			frags = append(frags, f)
		}
	}
	st.Fragments = len(frags)
	if len(frags) == 0 {
		st.Outcome = Abstained
	} else {
		st.Outcome = Shown
	}
	return frags, st
}
