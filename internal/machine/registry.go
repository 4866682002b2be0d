package machine

import (
	"cmp"
	"slices"
)

// registry is the append-only consumer list plus the per-state interest index.
//
// INVARIANTS:
//   - consumers never shrinks and indices never move
//   - interest[s] lists indices in registration order
//   - each consumer appears at most once per state
type registry[S comparable, E Event[S], P cmp.Ordered] struct {
	consumers []Consumer[S, E, P]
	interest  map[S][]int
}

func newRegistry[S comparable, E Event[S], P cmp.Ordered]() *registry[S, E, P] {
	return &registry[S, E, P]{
		interest: make(map[S][]int),
	}
}

// add appends c and indexes it under each state it declares.
// Returns the index c was stored at.
func (r *registry[S, E, P]) add(c Consumer[S, E, P]) int {
	index := len(r.consumers)
	states := c.States()
	r.consumers = append(r.consumers, c)

	seen := make(map[S]struct{}, len(states))
	for _, s := range states {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		r.interest[s] = append(r.interest[s], index)
	}
	return index
}

// prioritize returns the indices of the consumers interested in e, sorted
// ascending by each consumer's priority for e. The sort is stable, so equal
// priorities keep registration order.
//
// The returned slice is a snapshot: consumers registered while it is being
// walked are not part of it.
func (r *registry[S, E, P]) prioritize(e E) []int {
	interested := r.interest[e.State()]
	if len(interested) == 0 {
		return nil
	}

	type ranked struct {
		index    int
		priority P
	}
	order := make([]ranked, len(interested))
	for i, idx := range interested {
		order[i] = ranked{index: idx, priority: r.consumers[idx].Prioritize(e)}
	}
	slices.SortStableFunc(order, func(a, b ranked) int {
		return cmp.Compare(a.priority, b.priority)
	})

	indices := make([]int, len(order))
	for i, o := range order {
		indices[i] = o.index
	}
	return indices
}

// get returns the consumer stored at index.
func (r *registry[S, E, P]) get(index int) Consumer[S, E, P] {
	return r.consumers[index]
}

func (r *registry[S, E, P]) len() int {
	return len(r.consumers)
}

// interested returns how many consumers observe s.
func (r *registry[S, E, P]) interested(s S) int {
	return len(r.interest[s])
}
