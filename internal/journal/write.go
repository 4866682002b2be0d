package journal

import (
	"context"
	"fmt"

	"github.com/roach88/turnstile/internal/machine"
	"github.com/roach88/turnstile/internal/trace"
)

// StartRun inserts the header row for a run.
// Uses ON CONFLICT(id) DO NOTHING, so starting the same run twice is a no-op.
func (j *Journal) StartRun(ctx context.Context, run Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, seed, draws)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Name, run.Seed, run.Draws)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// AppendEntry writes one trace entry for runID.
// Duplicate (run, seq) pairs are silently ignored.
//
// Note: the run must have been started (foreign key constraint).
func (j *Journal) AppendEntry(ctx context.Context, runID string, e trace.Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries (run_id, seq, type, from_state, to_state, event, state, count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, runID, e.Seq, string(e.Type), e.From, e.To, e.Event, e.State, e.Count)
	if err != nil {
		return fmt.Errorf("append entry %d: %w", e.Seq, err)
	}
	return nil
}

// FinishRun records how a run ended. hand is stored as a canonical JSON
// array of card names.
func (j *Journal) FinishRun(ctx context.Context, id, final string, hand []string, stats machine.Stats) error {
	items := make([]any, len(hand))
	for i, h := range hand {
		items[i] = h
	}
	handJSON, err := trace.MarshalCanonical(items)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	res, err := j.db.ExecContext(ctx, `
		UPDATE runs
		SET final_state = ?, hand = ?, dispatched = ?, deliveries = ?,
		    unclaimed = ?, spawned = ?, transitions = ?, finished = 1
		WHERE id = ?
	`,
		final,
		string(handJSON),
		stats.Dispatched,
		stats.Deliveries,
		stats.Unclaimed,
		stats.Spawned,
		stats.Transitions,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
