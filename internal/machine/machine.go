package machine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
)

// Machine is the single-threaded state-dispatch engine.
//
// S is the state type, E the event type, P the consumer priority type.
// Machines that do not order their consumers use DefaultPriority.
//
// Thread-safety model: none. Run, and every method that mutates the machine,
// must be called from one goroutine. Consumers mutate the registry only
// through their Reaction, between invocations.
type Machine[S comparable, E Event[S], P cmp.Ordered] struct {
	state      S
	queue      *eventQueue[S, E]
	registry   *registry[S, E, P]
	transition Transition[S, E]
	observers  []Observer[S, E]
	stats      Stats

	logger   *slog.Logger
	maxSteps int

	running bool
	halted  bool
}

// Option configures a Machine.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	maxSteps int
}

// WithLogger sets the logger used for run diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxSteps stops Run with a StepsExceededError when it has taken
// maxSteps steps and would take another. Halting does not count as a step.
// Zero or negative means no limit, which is the default.
func WithMaxSteps(maxSteps int) Option {
	return func(o *options) {
		o.maxSteps = maxSteps
	}
}

// New creates a Machine in state initial that advances with transition.
//
// Panics if transition is nil.
func New[S comparable, E Event[S], P cmp.Ordered](
	transition Transition[S, E],
	initial S,
	opts ...Option,
) *Machine[S, E, P] {
	if transition == nil {
		panic("machine: nil transition")
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Machine[S, E, P]{
		state:      initial,
		queue:      newEventQueue[S, E](),
		registry:   newRegistry[S, E, P](),
		transition: transition,
		logger:     o.logger,
		maxSteps:   o.maxSteps,
	}
}

// AddConsumer registers c for every state in c.States().
//
// Returns the index c was stored at. Consumers are never removed, so the
// index stays valid for the machine's lifetime.
func (m *Machine[S, E, P]) AddConsumer(c Consumer[S, E, P]) int {
	return m.registry.add(c)
}

// AddObserver attaches o to every subsequent step.
func (m *Machine[S, E, P]) AddObserver(o Observer[S, E]) {
	m.observers = append(m.observers, o)
}

// Enqueue queues e under e.State().
func (m *Machine[S, E, P]) Enqueue(e E) {
	m.queue.push(e)
}

// Run drives the machine until its transition halts it.
//
// Returns nil on halt. Returns ctx.Err() if ctx is cancelled between steps,
// and a *StepsExceededError if the WithMaxSteps quota trips. Cancellation is
// only observed between steps; a consumer is never interrupted.
func (m *Machine[S, E, P]) Run(ctx context.Context) error {
	if m.running {
		return ErrRunning
	}
	if m.halted {
		return ErrHalted
	}
	m.running = true
	defer func() { m.running = false }()

	m.logger.Info("machine starting",
		"state", m.state,
		"consumers", m.registry.len(),
		"pending", m.queue.total,
	)

	for {
		if err := ctx.Err(); err != nil {
			m.logger.Info("machine stopping: context cancelled", "state", m.state)
			return err
		}

		// Drain phase
		if m.queue.len(m.state) > 0 {
			if err := m.checkQuota(); err != nil {
				return err
			}
			event, _ := m.queue.pop(m.state)
			m.dispatch(event)
			continue
		}

		// Advance phase
		decision := m.transition.Next(m.state, view[S, E, P]{m: m})
		next, ok := decision.Next()
		if !ok {
			m.halt()
			return nil
		}
		if err := m.checkQuota(); err != nil {
			return err
		}
		m.advance(next, decision.Events())
	}
}

func (m *Machine[S, E, P]) halt() {
	m.halted = true
	m.logger.Info("machine halted",
		"state", m.state,
		"dispatched", m.stats.Dispatched,
		"transitions", m.stats.Transitions,
		"unclaimed", m.stats.Unclaimed,
	)
	for _, o := range m.observers {
		o.Halted(m.state)
	}
}

// dispatch hands event to its consumers in priority order and absorbs what
// they produce.
func (m *Machine[S, E, P]) dispatch(event E) {
	m.stats.Dispatched++

	order := m.registry.prioritize(event)
	if len(order) == 0 {
		m.stats.Unclaimed++
		m.logger.Debug("event unclaimed", "state", event.State(), "event", event)
		for _, o := range m.observers {
			o.Unclaimed(event)
		}
		return
	}

	m.logger.Debug("dispatching event",
		"state", event.State(),
		"event", event,
		"consumers", len(order),
	)
	for _, o := range m.observers {
		o.Dispatched(event, len(order))
	}

	for _, index := range order {
		reaction := m.registry.get(index).Handle(event)
		m.stats.Deliveries++

		for _, c := range reaction.Consumers {
			m.spawn(c)
		}
		for _, e := range reaction.Events {
			m.queue.push(e)
		}
	}
}

// spawn registers a consumer produced by another consumer.
func (m *Machine[S, E, P]) spawn(c Consumer[S, E, P]) {
	index := m.registry.add(c)
	m.stats.Spawned++

	states := c.States()
	m.logger.Debug("consumer spawned", "index", index, "states", states)
	for _, o := range m.observers {
		o.Spawned(index, states)
	}
}

// advance moves to next and enqueues the transition's seed events.
func (m *Machine[S, E, P]) advance(next S, seeds []E) {
	from := m.state
	m.state = next
	m.stats.Transitions++
	for _, e := range seeds {
		m.queue.push(e)
	}

	m.logger.Debug("state transition", "from", from, "to", next, "seeds", len(seeds))
	for _, o := range m.observers {
		o.Transitioned(from, next, len(seeds))
	}
}

// checkQuota fails once the run has used up its step budget. It is called
// before a step is taken, so halting never trips it.
func (m *Machine[S, E, P]) checkQuota() error {
	if m.maxSteps <= 0 {
		return nil
	}
	if steps := m.stats.Steps(); steps >= m.maxSteps {
		err := &StepsExceededError{
			Steps: steps,
			Limit: m.maxSteps,
			State: fmt.Sprint(m.state),
		}
		m.logger.Warn("machine stopping: quota exceeded", "steps", steps, "limit", m.maxSteps)
		return err
	}
	return nil
}

// State returns the current state.
func (m *Machine[S, E, P]) State() S {
	return m.state
}

// Pending returns how many events are queued under s.
func (m *Machine[S, E, P]) Pending(s S) int {
	return m.queue.len(s)
}

// PendingTotal returns how many events are queued across all states.
func (m *Machine[S, E, P]) PendingTotal() int {
	return m.queue.total
}

// Consumers returns how many consumers are registered.
func (m *Machine[S, E, P]) Consumers() int {
	return m.registry.len()
}

// Interested returns how many consumers observe s.
func (m *Machine[S, E, P]) Interested(s S) int {
	return m.registry.interested(s)
}

// Stats returns the run counters so far.
func (m *Machine[S, E, P]) Stats() Stats {
	return m.stats
}

// Halted reports whether the transition has stopped the machine.
func (m *Machine[S, E, P]) Halted() bool {
	return m.halted
}

// view exposes only the read side of a Machine to a Transition, so the
// transition cannot reach AddConsumer or Enqueue through a type assertion.
type view[S comparable, E Event[S], P cmp.Ordered] struct {
	m *Machine[S, E, P]
}

func (v view[S, E, P]) State() S           { return v.m.State() }
func (v view[S, E, P]) Pending(s S) int    { return v.m.Pending(s) }
func (v view[S, E, P]) PendingTotal() int  { return v.m.PendingTotal() }
func (v view[S, E, P]) Consumers() int     { return v.m.Consumers() }
func (v view[S, E, P]) Interested(s S) int { return v.m.Interested(s) }
func (v view[S, E, P]) Stats() Stats       { return v.m.Stats() }
