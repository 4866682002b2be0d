package cards

import "github.com/roach88/turnstile/internal/bus"

// Hand holds the cards a player has drawn.
type Hand[T any] struct {
	Pile[T]
}

// DrawFrom moves the top card of src into the hand.
// Returns the card and false if src was empty.
func (h *Hand[T]) DrawFrom(src Drawer[T]) (T, bool) {
	card, ok := src.Draw()
	if !ok {
		return card, false
	}
	h.Add(card)
	return card, true
}

// DiscardPile collects cards taken out of play.
type DiscardPile[T any] struct {
	Pile[T]
}

// Discard puts card on top of the pile.
func (d *DiscardPile[T]) Discard(card T) {
	d.Add(card)
}

// Recycle moves every discarded card under the bottom of deck, top card
// first, and empties the pile. Returns how many cards moved.
func (d *DiscardPile[T]) Recycle(deck *Pile[T]) int {
	n := 0
	for {
		card, ok := d.Draw()
		if !ok {
			return n
		}
		deck.AddBottom(card)
		n++
	}
}

// Timing names the moment a card event fires.
type Timing string

// TimingPlay fires when a card enters a play area.
const TimingPlay Timing = "play"

// CardEvent is broadcast on a bus when something happens to a card.
type CardEvent[T any] struct {
	Timing Timing
	Card   T
}

// PlayArea is where played cards go.
type PlayArea[T any] struct {
	Pile[T]
}

// Play announces card on b, then adds it to the area. Listeners see the area
// as it was before the card landed.
func (a *PlayArea[T]) Play(card T, b *bus.Bus[CardEvent[T]]) {
	if b != nil {
		b.Send(CardEvent[T]{Timing: TimingPlay, Card: card})
	}
	a.Add(card)
}
