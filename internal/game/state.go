// Package game is a small draw-to-blind card game built on the machine
// package.
//
// A round runs Start -> Init -> StartRound -> RequestDraw -> Draw -> End and
// halts. The Deck consumer owns a seeded 52-card deck; the Blind consumer
// collects the cards it deals.
package game

import (
	"fmt"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/machine"
)

// State is a phase of the game. The zero value, StateStart, is the initial
// state.
type State int

const (
	StateStart State = iota
	StateInit
	StateStartRound
	StateRequestDraw
	StateDraw
	StateEnd
)

var stateNames = [...]string{"Start", "Init", "StartRound", "RequestDraw", "Draw", "End"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

// Kind identifies an event.
type Kind int

const (
	KindInit Kind = iota + 1
	KindStartRound
	KindRequestDraw
	KindDraw
)

// Event is a game event. Card is set only for KindDraw.
type Event struct {
	Kind Kind
	Card cards.PlayingCard
}

// State maps each event kind to the state that handles it.
func (e Event) State() State {
	switch e.Kind {
	case KindInit:
		return StateInit
	case KindStartRound:
		return StateStartRound
	case KindRequestDraw:
		return StateRequestDraw
	case KindDraw:
		return StateDraw
	default:
		return StateEnd
	}
}

// Name is the event's kind without its payload.
func (e Event) Name() string {
	switch e.Kind {
	case KindInit:
		return "Init"
	case KindStartRound:
		return "StartRound"
	case KindRequestDraw:
		return "RequestDraw"
	case KindDraw:
		return "Draw"
	default:
		return fmt.Sprintf("Kind(%d)", int(e.Kind))
	}
}

func (e Event) String() string {
	if e.Kind == KindDraw {
		return "Draw(" + e.Card.String() + ")"
	}
	return e.Name()
}

// Init asks the deck to fill and shuffle itself.
func Init() Event { return Event{Kind: KindInit} }

// StartRound opens a round.
func StartRound() Event { return Event{Kind: KindStartRound} }

// RequestDraw asks the deck for one card.
func RequestDraw() Event { return Event{Kind: KindRequestDraw} }

// Draw carries a dealt card.
func Draw(card cards.PlayingCard) Event { return Event{Kind: KindDraw, Card: card} }

type (
	// Machine is the machine the game runs on.
	Machine = machine.Machine[State, Event, machine.DefaultPriority]
	// Consumer is a game consumer.
	Consumer = machine.Consumer[State, Event, machine.DefaultPriority]
	// Reaction is what a game consumer returns.
	Reaction = machine.Reaction[State, Event, machine.DefaultPriority]
	// Decision is what the game transition returns.
	Decision = machine.Decision[State, Event]
	// Observer watches a game run.
	Observer = machine.Observer[State, Event]
)
