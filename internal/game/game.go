package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/machine"
)

// DefaultDraws is the number of cards dealt to the blind per round.
const DefaultDraws = 2

// Rules configure one game.
type Rules struct {
	Name  string     `json:"name,omitempty"`
	Seed  cards.Seed `json:"-"`
	Draws int        `json:"draws"`
}

// DefaultRules deal DefaultDraws cards from a deck shuffled with the all-zero
// seed.
func DefaultRules() Rules {
	return Rules{Name: "blind-draw", Draws: DefaultDraws}
}

// Validate checks the rules can be played.
func (r Rules) Validate() error {
	if r.Draws < 1 {
		return fmt.Errorf("draws must be at least 1, got %d", r.Draws)
	}
	return nil
}

// Transition walks the fixed round: Start -> Init -> StartRound ->
// RequestDraw -> Draw -> End, then halts. It seeds Init and StartRound;
// the deck produces the rest.
func Transition(current State, _ machine.View[State, Event]) Decision {
	switch current {
	case StateStart:
		return advance(StateInit, Init())
	case StateInit:
		return advance(StateStartRound, StartRound())
	case StateStartRound:
		return advance(StateRequestDraw)
	case StateRequestDraw:
		return advance(StateDraw)
	case StateDraw:
		return advance(StateEnd)
	default:
		return Decision{}
	}
}

func advance(next State, seeds ...Event) Decision {
	return machine.Advance(next, seeds...)
}

// Result is the outcome of Play.
type Result struct {
	Hand    []cards.PlayingCard `json:"hand"`
	Final   State               `json:"-"`
	Stats   machine.Stats       `json:"stats"`
	Refills int                 `json:"refills"`
}

type playOptions struct {
	logger    *slog.Logger
	maxSteps  int
	observers []Observer
}

// PlayOption configures Play.
type PlayOption func(*playOptions)

// WithObserver attaches o to the game's machine.
func WithObserver(o Observer) PlayOption {
	return func(p *playOptions) {
		p.observers = append(p.observers, o)
	}
}

// WithLogger sets the logger passed to the machine.
func WithLogger(logger *slog.Logger) PlayOption {
	return func(p *playOptions) {
		p.logger = logger
	}
}

// WithMaxSteps caps the machine's steps. See machine.WithMaxSteps.
func WithMaxSteps(n int) PlayOption {
	return func(p *playOptions) {
		p.maxSteps = n
	}
}

// Play runs one game to completion.
func Play(ctx context.Context, rules Rules, opts ...PlayOption) (*Result, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}

	var po playOptions
	for _, opt := range opts {
		opt(&po)
	}

	mopts := []machine.Option{machine.WithMaxSteps(po.maxSteps)}
	if po.logger != nil {
		mopts = append(mopts, machine.WithLogger(po.logger))
	}

	m := machine.New[State, Event, machine.DefaultPriority](
		machine.TransitionFunc[State, Event](Transition),
		StateStart,
		mopts...,
	)
	for _, o := range po.observers {
		m.AddObserver(o)
	}

	deck := NewDeck(rules.Seed, rules.Draws)
	blind := NewBlind()
	m.AddConsumer(deck)
	m.AddConsumer(blind)

	if err := m.Run(ctx); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}

	return &Result{
		Hand:    blind.Cards(),
		Final:   m.State(),
		Stats:   m.Stats(),
		Refills: deck.Refills(),
	}, nil
}
