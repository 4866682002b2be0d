package machine

// Stats counts what a machine has done so far.
type Stats struct {
	// Dispatched is the number of events popped from a queue.
	Dispatched int `json:"dispatched"`

	// Deliveries is the number of consumer invocations.
	Deliveries int `json:"deliveries"`

	// Unclaimed is the number of dispatched events no consumer observed.
	Unclaimed int `json:"unclaimed"`

	// Spawned is the number of consumers registered by other consumers.
	Spawned int `json:"spawned"`

	// Transitions is the number of times the machine advanced.
	Transitions int `json:"transitions"`
}

// Steps returns the number of loop iterations that did work.
func (s Stats) Steps() int {
	return s.Dispatched + s.Transitions
}

// Observer is notified of every step a machine takes.
//
// Observers are called synchronously from Run. They must not block and
// cannot affect dispatch.
type Observer[S comparable, E Event[S]] interface {
	// Dispatched is called before an event is handed to its consumers.
	Dispatched(event E, consumers int)

	// Unclaimed is called for an event no consumer observes.
	Unclaimed(event E)

	// Spawned is called when a consumer registers another consumer.
	Spawned(index int, states []S)

	// Transitioned is called after the machine moved from one state to another.
	Transitioned(from, to S, seeds int)

	// Halted is called once, when the transition decides to stop.
	Halted(final S)
}

// BaseObserver implements Observer with no-ops. Embed it to pick only the
// callbacks you need.
type BaseObserver[S comparable, E Event[S]] struct{}

func (BaseObserver[S, E]) Dispatched(E, int)      {}
func (BaseObserver[S, E]) Unclaimed(E)            {}
func (BaseObserver[S, E]) Spawned(int, []S)       {}
func (BaseObserver[S, E]) Transitioned(S, S, int) {}
func (BaseObserver[S, E]) Halted(S)               {}
