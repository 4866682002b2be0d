package trace

import (
	"fmt"
	"strings"

	"github.com/roach88/turnstile/internal/machine"
)

// Collector records machine callbacks as Entries.
//
// Attach it with Machine.AddObserver before Run. Like the machine, it is not
// safe for concurrent use.
type Collector[S comparable, E machine.Event[S]] struct {
	clock   *Clock
	label   func(E) string
	entries []Entry
	sinks   []func(Entry)
}

// NewCollector creates a Collector that names events with label. A nil label
// falls back to fmt.Sprint.
func NewCollector[S comparable, E machine.Event[S]](clock *Clock, label func(E) string) *Collector[S, E] {
	if clock == nil {
		clock = NewClock()
	}
	if label == nil {
		label = func(e E) string { return fmt.Sprint(e) }
	}
	return &Collector[S, E]{clock: clock, label: label}
}

// OnEntry calls fn with every entry as it is recorded.
func (c *Collector[S, E]) OnEntry(fn func(Entry)) {
	c.sinks = append(c.sinks, fn)
}

// Entries returns the recorded entries in order.
func (c *Collector[S, E]) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Collector[S, E]) record(e Entry) {
	e.Seq = c.clock.Next()
	c.entries = append(c.entries, e)
	for _, fn := range c.sinks {
		fn(e)
	}
}

func (c *Collector[S, E]) Dispatched(event E, consumers int) {
	c.record(Entry{
		Type:  EntryDispatch,
		Event: c.label(event),
		State: fmt.Sprint(event.State()),
		Count: consumers,
	})
}

func (c *Collector[S, E]) Unclaimed(event E) {
	c.record(Entry{
		Type:  EntryUnclaimed,
		Event: c.label(event),
		State: fmt.Sprint(event.State()),
	})
}

func (c *Collector[S, E]) Spawned(index int, states []S) {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = fmt.Sprint(s)
	}
	c.record(Entry{
		Type:  EntrySpawn,
		State: strings.Join(names, ","),
		Count: index,
	})
}

func (c *Collector[S, E]) Transitioned(from, to S, seeds int) {
	c.record(Entry{
		Type:  EntryTransition,
		From:  fmt.Sprint(from),
		To:    fmt.Sprint(to),
		Count: seeds,
	})
}

func (c *Collector[S, E]) Halted(final S) {
	c.record(Entry{
		Type: EntryHalt,
		To:   fmt.Sprint(final),
	})
}
