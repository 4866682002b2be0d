package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/turnstile/internal/journal"
	"github.com/roach88/turnstile/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
	Type    string // optional - filter to one entry type
}

// TraceResult holds a journaled run and its trace.
type TraceResult struct {
	Run     journal.Run    `json:"run"`
	Entries []trace.Entry  `json:"entries"`
	Counts  map[string]int `json:"counts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <run-id>",
		Short: "Show the trace of a journaled run",
		Long: `Show every step a journaled run took: transitions, dispatches,
unclaimed events, spawned consumers and the final halt.

Examples:
  turnstile trace --journal ./runs.db 0190a1b2-...
  turnstile trace --journal ./runs.db 0190a1b2-... --type dispatch
  turnstile trace --journal ./runs.db 0190a1b2-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", rootOpts.Config.Journal, "path to SQLite journal")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter to one entry type (transition|dispatch|unclaimed|spawn|halt)")

	return cmd
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
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

	entries, err := j.Entries(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to read trace", err)
	}

	result := TraceResult{Run: run, Entries: []trace.Entry{}, Counts: map[string]int{}}
	for _, e := range entries {
		result.Counts[string(e.Type)]++
		if opts.Type != "" && string(e.Type) != opts.Type {
			continue
		}
		result.Entries = append(result.Entries, e)
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, RunID: runID})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (%s, seed %s, %d draws)\n", run.ID, run.Name, run.Seed, run.Draws)
	for _, e := range result.Entries {
		fmt.Fprintf(w, "  [%d] %s\n", e.Seq, e)
	}
	fmt.Fprintf(w, "%d entries: %d transitions, %d dispatches, %d unclaimed\n",
		len(entries),
		result.Counts[string(trace.EntryTransition)],
		result.Counts[string(trace.EntryDispatch)],
		result.Counts[string(trace.EntryUnclaimed)],
	)
	return nil
}
