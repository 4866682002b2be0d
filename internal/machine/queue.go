package machine

// eventQueue holds pending events bucketed by the state they belong to.
//
// Each bucket is a stack: pop returns the most recently pushed event. Only
// the bucket for the machine's current state is ever popped, so events for
// other states wait until the machine gets there.
//
// Not safe for concurrent use. The Machine owns its queue and touches it only
// from Run and the methods Run's callers are allowed to use.
type eventQueue[S comparable, E Event[S]] struct {
	buckets map[S][]E
	total   int
}

func newEventQueue[S comparable, E Event[S]]() *eventQueue[S, E] {
	return &eventQueue[S, E]{
		buckets: make(map[S][]E),
	}
}

// push appends e to the bucket for e.State().
func (q *eventQueue[S, E]) push(e E) {
	s := e.State()
	q.buckets[s] = append(q.buckets[s], e)
	q.total++
}

// pop removes and returns the newest event queued under s.
// Returns false if nothing is queued for s.
func (q *eventQueue[S, E]) pop(s S) (E, bool) {
	bucket := q.buckets[s]
	if len(bucket) == 0 {
		var zero E
		return zero, false
	}

	last := len(bucket) - 1
	e := bucket[last]

	// Clear the slot so the backing array does not pin the event.
	var zero E
	bucket[last] = zero

	if last == 0 {
		delete(q.buckets, s)
	} else {
		q.buckets[s] = bucket[:last]
	}
	q.total--

	return e, true
}

// len returns the number of events queued under s.
func (q *eventQueue[S, E]) len(s S) int {
	return len(q.buckets[s])
}
