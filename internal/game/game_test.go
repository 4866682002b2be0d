package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/machine"
	"github.com/roach88/turnstile/internal/testutil"
)

func quiet() PlayOption {
	return WithLogger(testutil.DiscardLogger())
}

// shuffled returns the deck order the Deck consumer produces for seed,
// bottom first.
func shuffled(seed cards.Seed) []cards.PlayingCard {
	p := cards.NewPile(cards.StandardDeck()...)
	p.ShuffleSeed(seed)
	return p.Cards()
}

func TestPlay_DefaultRulesDealTwoCards(t *testing.T) {
	res, err := Play(context.Background(), DefaultRules(), quiet())
	require.NoError(t, err)

	require.Len(t, res.Hand, 2)
	assert.Equal(t, StateEnd, res.Final)

	// Two cards come off the top; their Draw events drain last-in-first-out,
	// so the second card dealt lands in the blind first.
	deck := shuffled(cards.Seed{})
	assert.Equal(t, []cards.PlayingCard{deck[50], deck[51]}, res.Hand)
}

func TestPlay_Deterministic(t *testing.T) {
	first, err := Play(context.Background(), DefaultRules(), quiet())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Play(context.Background(), DefaultRules(), quiet())
		require.NoError(t, err)
		assert.Equal(t, first.Hand, again.Hand)
		assert.Equal(t, first.Stats, again.Stats)
	}
}

func TestPlay_DifferentSeedsDiffer(t *testing.T) {
	a, err := Play(context.Background(), DefaultRules(), quiet())
	require.NoError(t, err)

	rules := DefaultRules()
	rules.Seed[0] = 1
	b, err := Play(context.Background(), rules, quiet())
	require.NoError(t, err)

	assert.NotEqual(t, a.Hand, b.Hand)
}

func TestPlay_Stats(t *testing.T) {
	res, err := Play(context.Background(), DefaultRules(), quiet())
	require.NoError(t, err)

	// Init, StartRound, 2x RequestDraw, 2x Draw.
	assert.Equal(t, machine.Stats{
		Dispatched:  6,
		Deliveries:  7,
		Transitions: 5,
	}, res.Stats)
	assert.Equal(t, 0, res.Refills)
}

func TestPlay_RefillsWhenDeckRunsOut(t *testing.T) {
	rules := DefaultRules()
	rules.Draws = 53

	res, err := Play(context.Background(), rules, quiet())
	require.NoError(t, err)

	assert.Len(t, res.Hand, 53)
	assert.Equal(t, 1, res.Refills)

	// The refill reshuffles with the same seed, so the 53rd card dealt is the
	// top of a fresh shuffle. It is the first one into the blind.
	deck := shuffled(rules.Seed)
	assert.Equal(t, deck[51], res.Hand[0])
}

func TestPlay_InvalidRules(t *testing.T) {
	_, err := Play(context.Background(), Rules{Draws: 0}, quiet())
	assert.ErrorContains(t, err, "draws must be at least 1")
}

func TestPlay_MaxSteps(t *testing.T) {
	_, err := Play(context.Background(), DefaultRules(), quiet(), WithMaxSteps(3))
	require.Error(t, err)
	assert.True(t, machine.IsStepsExceededError(err))
}

type stateLog struct {
	machine.BaseObserver[State, Event]
	states []State
	events []string
}

func (o *stateLog) Transitioned(_, to State, _ int) {
	o.states = append(o.states, to)
}

func (o *stateLog) Dispatched(e Event, _ int) {
	o.events = append(o.events, e.Name())
}

func TestPlay_StateSequence(t *testing.T) {
	obs := &stateLog{}
	_, err := Play(context.Background(), DefaultRules(), quiet(), WithObserver(obs))
	require.NoError(t, err)

	assert.Equal(t, []State{StateInit, StateStartRound, StateRequestDraw, StateDraw, StateEnd}, obs.states)
	assert.Equal(t, []string{"Init", "StartRound", "RequestDraw", "RequestDraw", "Draw", "Draw"}, obs.events)
}

func TestTransition_Halts(t *testing.T) {
	_, ok := Transition(StateEnd, nil).Next()
	assert.False(t, ok)

	next, ok := Transition(StateStart, nil).Next()
	require.True(t, ok)
	assert.Equal(t, StateInit, next)
	assert.Equal(t, []Event{Init()}, Transition(StateStart, nil).Events())
}

func TestEvent_State(t *testing.T) {
	tests := []struct {
		event Event
		want  State
	}{
		{Init(), StateInit},
		{StartRound(), StateStartRound},
		{RequestDraw(), StateRequestDraw},
		{Draw(cards.PlayingCard{Suit: cards.Hearts, Rank: cards.Ace}), StateDraw},
	}
	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.State())
			assert.Equal(t, tt.want, tt.event.State(), "state must be stable")
		})
	}
}

func TestState_StringRoundTrip(t *testing.T) {
	for s := StateStart; s <= StateEnd; s++ {
		parsed, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseState("Nope")
	assert.Error(t, err)
	assert.Equal(t, "State(42)", State(42).String())
}

func TestBlind_ClearsOnStartRound(t *testing.T) {
	b := NewBlind()
	b.Handle(Draw(cards.PlayingCard{Suit: cards.Clubs, Rank: cards.Two}))
	require.Len(t, b.Cards(), 1)

	b.Handle(StartRound())
	assert.Empty(t, b.Cards())
}

func TestDeck_StartRoundRequestsDraws(t *testing.T) {
	d := NewDeck(cards.Seed{}, 3)
	r := d.Handle(StartRound())

	assert.Equal(t, []Event{RequestDraw(), RequestDraw(), RequestDraw()}, r.Events)
	assert.Empty(t, r.Consumers)
}
