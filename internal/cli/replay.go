package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/journal"
	"github.com/roach88/turnstile/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal string
}

// ReplayResult reports whether a fresh run matched the journal.
type ReplayResult struct {
	RunID         string `json:"run_id"`
	Entries       int    `json:"entries"`
	Deterministic bool   `json:"deterministic"`

	// Divergence is the seq of the first entry that differs. Zero when the
	// traces match.
	Divergence int64  `json:"divergence,omitempty"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	HandMatch  bool   `json:"hand_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Replay a journaled run and verify determinism",
		Long: `Play a journaled run again from its recorded seed and draw count and
compare the fresh trace with the journal, entry by entry.

Exit codes:
  0 - The replay matched the journal
  1 - The replay diverged
  2 - Command error (journal not found, unknown run)

Examples:
  turnstile replay --journal ./runs.db 0190a1b2-...
  turnstile replay --journal ./runs.db 0190a1b2-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", rootOpts.Config.Journal, "path to SQLite journal")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	j, err := openJournal(formatter, opts.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.Run(ctx, runID)
	if errors.Is(err, journal.ErrRunNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run %s not found", runID), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read run", err)
	}
	recorded, err := j.Entries(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read trace", err)
	}

	seed, err := cards.ParseSeed(run.Seed)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidRules, "journaled seed is invalid", err)
	}
	rules := game.Rules{Name: run.Name, Seed: seed, Draws: run.Draws}

	formatter.VerboseLog("Replaying %s (%d recorded entries)", runID, len(recorded))
	fresh, hand := replayRun(ctx, rules)

	result := compareTraces(runID, recorded, fresh)
	result.HandMatch = !run.Finished || slices.Equal(run.Hand, hand)
	if !result.HandMatch {
		result.Deterministic = false
	}

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result, RunID: runID}
		if !result.Deterministic {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeGeneric, Message: "replay diverged from journal"}
		}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
	} else {
		outputReplayText(formatter, result)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s is not deterministic", runID))
	}
	return nil
}

// replayRun plays rules again. The step quota is lifted so a run that was
// stopped early replays at least as far as it got; compareTraces only looks
// at the recorded prefix of such runs.
func replayRun(ctx context.Context, rules game.Rules) ([]trace.Entry, []string) {
	collector := trace.NewCollector[game.State, game.Event](trace.NewClock(), nil)
	res, err := game.Play(ctx, rules,
		game.WithObserver(collector),
		game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	var hand []string
	if err == nil {
		for _, card := range res.Hand {
			hand = append(hand, card.String())
		}
	}
	return collector.Entries(), hand
}

// compareTraces checks fresh against recorded. A recorded trace without a
// halt is an interrupted run and only needs to be a prefix of fresh.
func compareTraces(runID string, recorded, fresh []trace.Entry) ReplayResult {
	result := ReplayResult{RunID: runID, Entries: len(recorded), Deterministic: true}
	diverge := func(seq int64, expected, actual string) ReplayResult {
		result.Deterministic = false
		result.Divergence = seq
		result.Expected = expected
		result.Actual = actual
		return result
	}

	for i, want := range recorded {
		if i >= len(fresh) {
			return diverge(want.Seq, want.String(), "end of trace")
		}
		if want != fresh[i] {
			return diverge(want.Seq, want.String(), fresh[i].String())
		}
	}

	halted := len(recorded) > 0 && recorded[len(recorded)-1].Type == trace.EntryHalt
	if halted && len(fresh) > len(recorded) {
		extra := fresh[len(recorded)]
		return diverge(extra.Seq, "end of trace", extra.String())
	}
	return result
}

func outputReplayText(f *OutputFormatter, r ReplayResult) {
	w := f.Writer
	if r.Deterministic {
		fmt.Fprintf(w, "✓ %s replayed identically (%d entries)\n", r.RunID, r.Entries)
		return
	}
	fmt.Fprintf(w, "✗ %s diverged\n", r.RunID)
	if r.Divergence > 0 {
		fmt.Fprintf(w, "  at seq %d\n", r.Divergence)
		fmt.Fprintf(w, "  Expected: %s\n", r.Expected)
		fmt.Fprintf(w, "  Actual:   %s\n", r.Actual)
	}
	if !r.HandMatch {
		fmt.Fprintln(w, "  blind differs from the journal")
	}
}
