package trace

import "sync/atomic"

// Clock is a monotonic logical clock for ordering trace entries.
//
// Entries are ordered by seq, never by wall-clock time, so a replayed run
// produces the same sequence numbers.
//
// Safe for concurrent use, although a machine run only ever ticks it from
// one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
