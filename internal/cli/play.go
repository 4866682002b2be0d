package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/journal"
	"github.com/roach88/turnstile/internal/machine"
	"github.com/roach88/turnstile/internal/rules"
	"github.com/roach88/turnstile/internal/trace"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Seed      string
	Draws     int
	RulesFile string
	Journal   string
	MaxSteps  int
	Trace     bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs journal.RunIDGenerator
}

// PlayResult is the outcome of one game.
type PlayResult struct {
	RunID   string        `json:"run_id,omitempty"`
	Name    string        `json:"name"`
	Seed    string        `json:"seed"`
	Draws   int           `json:"draws"`
	Final   string        `json:"final"`
	Hand    []string      `json:"hand"`
	Refills int           `json:"refills"`
	Stats   machine.Stats `json:"stats"`
	Trace   []trace.Entry `json:"trace,omitempty"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}
	cfg := rootOpts.Config

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one blind-draw game",
		Long: `Play one game: shuffle a seeded deck, deal cards to the blind, halt.

Rules come from --rules (a CUE file) or from --seed and --draws. The same
seed and draw count always deal the same blind. With --journal the run's
trace is written to a SQLite journal for the trace and replay commands.

Exit codes:
  0 - Game halted normally
  1 - Run stopped early (step quota, interrupt)
  2 - Command error (invalid rules, journal unavailable)

Examples:
  turnstile play
  turnstile play --seed 0101...01 --draws 5
  turnstile play --rules ./rules/high-stakes.cue --journal ./runs.db
  turnstile play --trace --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", cfg.Seed, "deck seed, 64 hex characters (default all zeros)")
	cmd.Flags().IntVar(&opts.Draws, "draws", cfg.Draws, "cards dealt to the blind")
	cmd.Flags().StringVar(&opts.RulesFile, "rules", cfg.Rules, "CUE rules file (replaces --seed and --draws)")
	cmd.Flags().StringVar(&opts.Journal, "journal", cfg.Journal, "path to SQLite journal")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", cfg.MaxSteps, "stop after this many machine steps (0 = no limit)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the run trace in the output")
	cmd.MarkFlagsMutuallyExclusive("rules", "seed")
	cmd.MarkFlagsMutuallyExclusive("rules", "draws")

	return cmd
}

// resolveRules picks the rules file when set, otherwise the seed and draws.
func resolveRules(opts *PlayOptions) (game.Rules, error) {
	if opts.RulesFile != "" {
		return rules.Load(opts.RulesFile)
	}
	cfg := opts.Config
	cfg.Seed = opts.Seed
	cfg.Draws = opts.Draws
	return cfg.GameRules()
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	r, err := resolveRules(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidRules, "invalid rules", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := trace.NewCollector[game.State, game.Event](trace.NewClock(), nil)
	playOpts := []game.PlayOption{
		game.WithObserver(collector),
		game.WithLogger(logger),
		game.WithMaxSteps(opts.MaxSteps),
	}

	var (
		j     *journal.Journal
		rec   *journal.Recorder
		runID string
	)
	if opts.Journal != "" {
		j, err = journal.Open(opts.Journal)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()

		ids := opts.RunIDs
		if ids == nil {
			ids = journal.UUIDv7Generator{}
		}
		runID = ids.Generate()
		err = j.StartRun(ctx, journal.Run{
			ID:    runID,
			Name:  r.Name,
			Seed:  r.Seed.String(),
			Draws: r.Draws,
		})
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to start run", err)
		}
		rec = journal.NewRecorder(ctx, j, runID, logger)
		collector.OnEntry(rec.Record)
	}

	res, err := game.Play(ctx, r, playOpts...)
	if err != nil {
		switch {
		case machine.IsStepsExceededError(err):
			return formatter.Fail(ExitFailure, ErrCodeStepsExceeded, "run stopped", err)
		case errors.Is(err, context.Canceled):
			return formatter.Fail(ExitFailure, ErrCodeGeneric, "run interrupted", err)
		default:
			return formatter.Fail(ExitFailure, ErrCodeGeneric, "run failed", err)
		}
	}

	result := PlayResult{
		RunID:   runID,
		Name:    r.Name,
		Seed:    r.Seed.String(),
		Draws:   r.Draws,
		Final:   res.Final.String(),
		Hand:    make([]string, len(res.Hand)),
		Refills: res.Refills,
		Stats:   res.Stats,
	}
	for i, card := range res.Hand {
		result.Hand[i] = card.String()
	}
	if opts.Trace {
		result.Trace = collector.Entries()
	}

	if j != nil {
		if err := rec.Err(); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeJournal, "journal incomplete", err)
		}
		if err := j.FinishRun(ctx, runID, result.Final, result.Hand, result.Stats); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeJournal, "failed to finish run", err)
		}
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, RunID: runID})
	}
	outputPlayText(formatter, result)
	return nil
}

func outputPlayText(f *OutputFormatter, r PlayResult) {
	w := f.Writer
	fmt.Fprintf(w, "%s: %d card(s), seed %s\n", r.Name, r.Draws, r.Seed)
	fmt.Fprintln(w, "Blind:")
	for i, card := range r.Hand {
		fmt.Fprintf(w, "  %d. %s\n", i+1, card)
	}
	fmt.Fprintf(w, "Halted in %s after %d dispatches, %d transitions\n",
		r.Final, r.Stats.Dispatched, r.Stats.Transitions)
	if r.Refills > 0 {
		fmt.Fprintf(w, "Deck refilled %d time(s)\n", r.Refills)
	}
	if len(r.Trace) > 0 {
		fmt.Fprintln(w, "Trace:")
		for _, e := range r.Trace {
			fmt.Fprintf(w, "  [%d] %s\n", e.Seq, e)
		}
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", r.RunID)
	}
}
