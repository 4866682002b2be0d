package machine

// Decision is the outcome of a Transition: either advance to a next state,
// seeding it with events, or halt.
//
// The zero Decision halts.
type Decision[S comparable, E Event[S]] struct {
	next    S
	events  []E
	advance bool
}

// Advance decides to move to next and enqueue events once there.
func Advance[S comparable, E Event[S]](next S, events ...E) Decision[S, E] {
	return Decision[S, E]{next: next, events: events, advance: true}
}

// Halt decides to stop the machine.
func Halt[S comparable, E Event[S]]() Decision[S, E] {
	return Decision[S, E]{}
}

// Next returns the state to advance to and whether the decision advances.
func (d Decision[S, E]) Next() (S, bool) {
	return d.next, d.advance
}

// Events returns the seed events. Always empty for a halt.
func (d Decision[S, E]) Events() []E {
	if !d.advance {
		return nil
	}
	return d.events
}

// Transition decides where the machine goes once the current state's queue
// is empty.
//
// Next gets a read-only View of the machine. Any change it wants must be
// expressed in the returned Decision.
type Transition[S comparable, E Event[S]] interface {
	Next(current S, view View[S, E]) Decision[S, E]
}

// TransitionFunc adapts a plain function to Transition.
type TransitionFunc[S comparable, E Event[S]] func(current S, view View[S, E]) Decision[S, E]

// Next calls f(current, view).
func (f TransitionFunc[S, E]) Next(current S, view View[S, E]) Decision[S, E] {
	return f(current, view)
}

// View is the read-only handle passed to a Transition.
type View[S comparable, E Event[S]] interface {
	// State returns the current state.
	State() S

	// Pending returns how many events are queued under s.
	Pending(s S) int

	// PendingTotal returns how many events are queued across all states.
	PendingTotal() int

	// Consumers returns how many consumers are registered.
	Consumers() int

	// Interested returns how many consumers observe s.
	Interested(s S) int

	// Stats returns the run counters so far.
	Stats() Stats
}
