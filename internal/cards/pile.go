// Package cards provides card containers and shuffling.
//
// Containers are ordered sequences whose top is the end of the slice: Add
// pushes to the top and Draw pops from it.
package cards

import "math/rand/v2"

// Drawer is anything cards can be drawn from.
type Drawer[T any] interface {
	Draw() (T, bool)
}

// Pile is an ordered stack of cards. The zero Pile is empty and ready to use.
type Pile[T any] struct {
	cards []T
}

// NewPile creates a Pile holding cards, the last one on top.
func NewPile[T any](cards ...T) *Pile[T] {
	p := &Pile[T]{}
	p.cards = append(p.cards, cards...)
	return p
}

// Add puts card on top.
func (p *Pile[T]) Add(card T) {
	p.cards = append(p.cards, card)
}

// Draw removes and returns the top card. Returns false if the pile is empty.
func (p *Pile[T]) Draw() (T, bool) {
	var zero T
	if len(p.cards) == 0 {
		return zero, false
	}
	last := len(p.cards) - 1
	card := p.cards[last]
	p.cards[last] = zero
	p.cards = p.cards[:last]
	return card, true
}

// AddBottom puts card underneath every other card.
func (p *Pile[T]) AddBottom(card T) {
	p.cards = append(p.cards, card)
	copy(p.cards[1:], p.cards[:len(p.cards)-1])
	p.cards[0] = card
}

// Len returns the number of cards.
func (p *Pile[T]) Len() int {
	return len(p.cards)
}

// Cards returns a copy of the cards, bottom first.
func (p *Pile[T]) Cards() []T {
	out := make([]T, len(p.cards))
	copy(out, p.cards)
	return out
}

// Clear removes every card.
func (p *Pile[T]) Clear() {
	clear(p.cards)
	p.cards = p.cards[:0]
}

// Shuffle permutes the pile in place with the Fisher-Yates algorithm, drawing
// randomness from r.
func (p *Pile[T]) Shuffle(r *rand.Rand) {
	for i := len(p.cards) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
	}
}

// ShuffleSeed shuffles with a generator seeded from seed. The same seed and
// the same starting order always give the same result.
func (p *Pile[T]) ShuffleSeed(seed Seed) {
	p.Shuffle(seed.Rand())
}
