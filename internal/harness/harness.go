package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/journal"
	"github.com/roach88/turnstile/internal/trace"
)

// Harness plays scenario games against a private journal.
type Harness struct {
	journal *journal.Journal
	ids     journal.RunIDGenerator
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
// Execution flow:
//  1. Resolve the scenario's rules
//  2. Play the game Repeat times, journaling each trace
//  3. Evaluate assertions against the first play and the repeats
//
// An error is returned only when the scenario cannot be executed. A game
// that stops with an error is reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	rules, err := scenario.GameRules()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rules: %w", err)
	}

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	runs := scenario.runs()
	ids := make([]string, runs)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", scenario.Name, i+1)
	}

	h := &Harness{
		journal: j,
		ids:     journal.NewFixedGenerator(ids...),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()
	result.Runs = runs

	for i := 0; i < runs; i++ {
		o, err := h.play(ctx, scenario, rules)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		if i == 0 {
			result.setFirst(o)
			continue
		}
		result.repeats = append(result.repeats, o)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// play runs the game once. A failed game is returned in the outcome; the
// error is for journal failures.
func (h *Harness) play(ctx context.Context, scenario *Scenario, rules game.Rules) (outcome, error) {
	runID := h.ids.Generate()
	err := h.journal.StartRun(ctx, journal.Run{
		ID:    runID,
		Name:  rules.Name,
		Seed:  rules.Seed.String(),
		Draws: rules.Draws,
	})
	if err != nil {
		return outcome{}, err
	}

	collector := trace.NewCollector[game.State, game.Event](trace.NewClock(), game.Event.Name)
	rec := journal.NewRecorder(ctx, h.journal, runID, h.logger)
	collector.OnEntry(rec.Record)

	res, runErr := game.Play(ctx, rules,
		game.WithObserver(collector),
		game.WithLogger(h.logger),
		game.WithMaxSteps(scenario.MaxSteps),
	)
	if err := rec.Err(); err != nil {
		return outcome{}, fmt.Errorf("journal trace: %w", err)
	}

	o := outcome{hand: []string{}, err: runErr}
	if runErr == nil {
		for _, card := range res.Hand {
			o.hand = append(o.hand, card.String())
		}
		o.final = res.Final.String()
		o.stats = res.Stats
		o.refills = res.Refills
		if err := h.journal.FinishRun(ctx, runID, o.final, o.hand, o.stats); err != nil {
			return outcome{}, err
		}
	}

	o.trace, err = h.journal.Entries(ctx, runID)
	if err != nil {
		return outcome{}, err
	}
	return o, nil
}
