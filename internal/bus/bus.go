// Package bus provides a synchronous publish/subscribe bus.
//
// A Bus has no notion of state or queues: Send calls every live listener, in
// registration order, before it returns. Listener indices are stable.
// Removing a listener clears its slot without shifting the others, so an
// index held elsewhere either still names the same listener or is inert.
package bus

import "fmt"

// Bus broadcasts values of type T to its listeners.
//
// Not safe for concurrent use.
type Bus[T any] struct {
	listeners []func(T)
	live      int
}

// New creates an empty Bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Listen registers fn and returns its index.
func (b *Bus[T]) Listen(fn func(T)) int {
	index := len(b.listeners)
	b.listeners = append(b.listeners, fn)
	b.live++
	return index
}

// Remove clears the listener at index. Removing an already removed listener
// does nothing.
//
// Panics if index was never returned by Listen.
func (b *Bus[T]) Remove(index int) {
	checkIndex(index, len(b.listeners))
	if b.listeners[index] == nil {
		return
	}
	b.listeners[index] = nil
	b.live--
}

// Send calls every live listener with v, in registration order.
func (b *Bus[T]) Send(v T) {
	for _, fn := range b.listeners {
		if fn != nil {
			fn(v)
		}
	}
}

// Live returns the number of listeners that have not been removed.
func (b *Bus[T]) Live() int {
	return b.live
}

func checkIndex(index, n int) {
	if index < 0 || index >= n {
		panic(fmt.Sprintf("bus: listener index %d out of range [0:%d]", index, n))
	}
}
