package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/turnstile/internal/journal"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Journal string
}

// RunsResult lists journaled runs.
type RunsResult struct {
	Runs  []journal.Run `json:"runs"`
	Total int           `json:"total"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled runs",
		Long: `List every run in the journal, oldest first.

Examples:
  turnstile runs --journal ./runs.db
  turnstile runs --journal ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", rootOpts.Config.Journal, "path to SQLite journal")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	j, err := openJournal(formatter, opts.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Runs(context.Background())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to list runs", err)
	}

	if formatter.JSON() {
		return formatter.Success(RunsResult{Runs: runs, Total: len(runs)})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs in journal.")
		return nil
	}
	for _, r := range runs {
		status := "unfinished"
		if r.Finished {
			status = fmt.Sprintf("%s, %d card(s)", r.Final, len(r.Hand))
		}
		fmt.Fprintf(w, "%s  %-14s draws=%-3d %s\n", r.ID, r.Name, r.Draws, status)
	}
	return nil
}
