package machine

import "cmp"

// Event is a payload that belongs to exactly one state.
//
// State must be pure: the same event always reports the same state. The
// machine calls it when the event is enqueued and again when prioritizing.
type Event[S comparable] interface {
	State() S
}

// Consumer is a unit of reactive logic bound to a fixed set of states.
//
// States is read once, at registration. Handle is only ever called with
// events whose State() is in that set.
type Consumer[S comparable, E Event[S], P cmp.Ordered] interface {
	// States returns the states this consumer observes.
	States() []S

	// Prioritize orders this consumer against the other consumers eligible
	// for the same event. Lower values run first.
	Prioritize(event E) P

	// Handle reacts to an event.
	Handle(event E) Reaction[S, E, P]
}

// Reaction is what a consumer produces for one event.
type Reaction[S comparable, E Event[S], P cmp.Ordered] struct {
	// Events are enqueued under their own states after the consumer returns.
	Events []E

	// Consumers are registered immediately, before the next consumer in the
	// current dispatch runs.
	Consumers []Consumer[S, E, P]
}

// DefaultPriority is the priority type for machines that do not order their
// consumers. Every consumer reports the same value, so dispatch falls back to
// registration order.
type DefaultPriority int

// Unprioritized can be embedded in a consumer to satisfy Prioritize with the
// single DefaultPriority value.
type Unprioritized[E any] struct{}

// Prioritize always returns 0.
func (Unprioritized[E]) Prioritize(E) DefaultPriority {
	return 0
}
