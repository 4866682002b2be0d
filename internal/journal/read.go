package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/turnstile/internal/machine"
	"github.com/roach88/turnstile/internal/trace"
)

// ErrRunNotFound is returned when a run id is not in the journal.
var ErrRunNotFound = errors.New("run not found")

// Run is one journaled game.
type Run struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seed  string `json:"seed"`
	Draws int    `json:"draws"`

	// Set by FinishRun.
	Final    string        `json:"final,omitempty"`
	Hand     []string      `json:"hand"`
	Stats    machine.Stats `json:"stats"`
	Finished bool          `json:"finished"`
}

const runColumns = `id, name, seed, draws, final_state, hand,
	dispatched, deliveries, unclaimed, spawned, transitions, finished`

// Runs returns every run in insertion order.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) Runs(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns the run with the given id, or ErrRunNotFound.
func (j *Journal) Run(ctx context.Context, id string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	return run, err
}

// Entries returns a run's trace ordered by seq.
// Returns an empty slice (not nil) if the run has no entries.
func (j *Journal) Entries(ctx context.Context, runID string) ([]trace.Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, type, from_state, to_state, event, state, count
		FROM entries
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []trace.Entry{}
	for rows.Next() {
		var (
			e   trace.Entry
			typ string
		)
		if err := rows.Scan(&e.Seq, &typ, &e.From, &e.To, &e.Event, &e.State, &e.Count); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Type = trace.EntryType(typ)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run      Run
		handJSON string
		finished int
	)
	err := s.Scan(
		&run.ID,
		&run.Name,
		&run.Seed,
		&run.Draws,
		&run.Final,
		&handJSON,
		&run.Stats.Dispatched,
		&run.Stats.Deliveries,
		&run.Stats.Unclaimed,
		&run.Stats.Spawned,
		&run.Stats.Transitions,
		&finished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(handJSON), &run.Hand); err != nil {
		return Run{}, fmt.Errorf("unmarshal hand for run %s: %w", run.ID, err)
	}
	if run.Hand == nil {
		run.Hand = []string{}
	}
	run.Finished = finished != 0
	return run, nil
}
