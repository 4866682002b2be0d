package game

import (
	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/machine"
)

// Deck owns the draw pile.
//
// Init fills the pile with a standard deck and shuffles it with the seed.
// StartRound asks for draws RequestDraw events. Each RequestDraw deals the
// top card as a Draw event, refilling and reshuffling with the same seed when
// the pile has run out.
type Deck struct {
	machine.Unprioritized[Event]

	pile   cards.Pile[cards.PlayingCard]
	seed   cards.Seed
	draws  int
	refill int
}

// NewDeck creates a Deck that shuffles with seed and deals draws cards per
// round.
func NewDeck(seed cards.Seed, draws int) *Deck {
	return &Deck{seed: seed, draws: draws}
}

func (d *Deck) States() []State {
	return []State{StateInit, StateStartRound, StateRequestDraw}
}

func (d *Deck) Handle(e Event) Reaction {
	switch e.Kind {
	case KindInit:
		d.fill()
		return Reaction{}

	case KindStartRound:
		requests := make([]Event, d.draws)
		for i := range requests {
			requests[i] = RequestDraw()
		}
		return Reaction{Events: requests}

	case KindRequestDraw:
		card, ok := d.pile.Draw()
		if !ok {
			d.refill++
			d.fill()
			card, _ = d.pile.Draw()
		}
		return Reaction{Events: []Event{Draw(card)}}
	}
	return Reaction{}
}

func (d *Deck) fill() {
	d.pile.Clear()
	for _, c := range cards.StandardDeck() {
		d.pile.Add(c)
	}
	d.pile.ShuffleSeed(d.seed)
}

// Remaining returns how many cards are left in the pile.
func (d *Deck) Remaining() int {
	return d.pile.Len()
}

// Refills returns how many times the pile ran out and was rebuilt.
func (d *Deck) Refills() int {
	return d.refill
}

// Blind collects dealt cards. StartRound empties it; Draw adds the card.
type Blind struct {
	machine.Unprioritized[Event]

	hand cards.Hand[cards.PlayingCard]
}

// NewBlind creates an empty Blind.
func NewBlind() *Blind {
	return &Blind{}
}

func (b *Blind) States() []State {
	return []State{StateStartRound, StateDraw}
}

func (b *Blind) Handle(e Event) Reaction {
	switch e.Kind {
	case KindStartRound:
		b.hand.Clear()
	case KindDraw:
		b.hand.Add(e.Card)
	}
	return Reaction{}
}

// Cards returns the held cards in the order they arrived.
func (b *Blind) Cards() []cards.PlayingCard {
	return b.hand.Cards()
}
