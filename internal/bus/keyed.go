package bus

// Keyed is a Bus whose listeners can subscribe to one key instead of the
// whole stream. The key of a sent value comes from the function given to
// NewKeyed.
//
// Stream and keyed listeners share one index space and one registration
// order.
type Keyed[K comparable, T any] struct {
	keyOf     func(T) K
	listeners []keyedListener[K, T]
	live      int
}

type keyedListener[K comparable, T any] struct {
	fn  func(T)
	key K
	all bool
}

// NewKeyed creates an empty Keyed bus that derives keys with keyOf.
func NewKeyed[K comparable, T any](keyOf func(T) K) *Keyed[K, T] {
	return &Keyed[K, T]{keyOf: keyOf}
}

// ListenAll registers fn for every value and returns its index.
func (b *Keyed[K, T]) ListenAll(fn func(T)) int {
	return b.add(keyedListener[K, T]{fn: fn, all: true})
}

// Listen registers fn for values whose key equals key and returns its index.
func (b *Keyed[K, T]) Listen(key K, fn func(T)) int {
	return b.add(keyedListener[K, T]{fn: fn, key: key})
}

func (b *Keyed[K, T]) add(l keyedListener[K, T]) int {
	index := len(b.listeners)
	b.listeners = append(b.listeners, l)
	b.live++
	return index
}

// Remove clears the listener at index. Removing an already removed listener
// does nothing.
//
// Panics if index was never returned by Listen or ListenAll.
func (b *Keyed[K, T]) Remove(index int) {
	checkIndex(index, len(b.listeners))
	if b.listeners[index].fn == nil {
		return
	}
	b.listeners[index] = keyedListener[K, T]{}
	b.live--
}

// Send calls, in registration order, every live listener registered for the
// whole stream or for v's key.
func (b *Keyed[K, T]) Send(v T) {
	key := b.keyOf(v)
	for _, l := range b.listeners {
		if l.fn == nil {
			continue
		}
		if l.all || l.key == key {
			l.fn(v)
		}
	}
}

// Live returns the number of listeners that have not been removed.
func (b *Keyed[K, T]) Live() int {
	return b.live
}
