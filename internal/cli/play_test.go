package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/turnstile/internal/config"
	"github.com/roach88/turnstile/internal/journal"
	"github.com/roach88/turnstile/internal/testutil"
	"github.com/roach88/turnstile/internal/trace"
)

var seedOnes = testutil.SeedHex(1)

func TestPlayDefaultText(t *testing.T) {
	out, err := execute(t, "play")
	require.NoError(t, err)

	assert.Contains(t, out, "blind-draw: 2 card(s), seed "+strings.Repeat("0", 64))
	assert.Contains(t, out, "Blind:\n  1. ")
	assert.Contains(t, out, "  2. ")
	assert.Contains(t, out, "Halted in End after 6 dispatches, 5 transitions")
	assert.NotContains(t, out, "Run:", "no journal, no run id")
	assert.NotContains(t, out, "Trace:")
}

func TestPlayJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "play", "--seed", seedOnes, "--draws", "5", "--trace")
	require.NoError(t, err)

	resp := decode[PlayResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.RunID)

	r := resp.Data
	assert.Equal(t, seedOnes, r.Seed)
	assert.Equal(t, 5, r.Draws)
	assert.Equal(t, "End", r.Final)
	assert.Len(t, r.Hand, 5)
	assert.Equal(t, 0, r.Refills)
	assert.Equal(t, 12, r.Stats.Dispatched)
	assert.Equal(t, 13, r.Stats.Deliveries)

	require.NotEmpty(t, r.Trace)
	last := r.Trace[len(r.Trace)-1]
	assert.Equal(t, trace.EntryHalt, last.Type)
	assert.Equal(t, "End", last.To)
}

func TestPlayIsDeterministic(t *testing.T) {
	first, err := execute(t, "--format", "json", "play", "--seed", seedOnes)
	require.NoError(t, err)
	second, err := execute(t, "--format", "json", "play", "--seed", seedOnes)
	require.NoError(t, err)

	assert.Equal(t, decode[PlayResult](t, first).Data.Hand, decode[PlayResult](t, second).Data.Hand)
}

func TestPlayRulesFile(t *testing.T) {
	out, err := execute(t, "--format", "json", "play", "--rules", filepath.Join("..", "rules", "testdata", "high-stakes.cue"))
	require.NoError(t, err)

	r := decode[PlayResult](t, out).Data
	assert.Equal(t, "high-stakes", r.Name)
	assert.Equal(t, seedOnes, r.Seed)
	assert.Len(t, r.Hand, 5)
}

func TestPlayRulesExcludesSeed(t *testing.T) {
	_, err := execute(t, "play", "--rules", "x.cue", "--seed", seedOnes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestPlayInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"short seed", []string{"play", "--seed", "abc"}},
		{"zero draws", []string{"play", "--draws", "0"}},
		{"missing rules file", []string{"play", "--rules", filepath.Join(t.TempDir(), "missing.cue")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E003]: invalid rules")
		})
	}
}

func TestPlayStepsExceeded(t *testing.T) {
	out, err := execute(t, "--format", "json", "play", "--max-steps", "3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decode[any](t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeStepsExceeded, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "max steps quota")
}

func TestPlayJournalsRun(t *testing.T) {
	dbPath := testutil.JournalPath(t)

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})

	opts := &PlayOptions{
		RootOptions: &RootOptions{Format: "text", Config: config.Default()},
		Draws:       2,
		Journal:     dbPath,
		RunIDs:      journal.NewFixedGenerator("run-1"),
	}
	require.NoError(t, runPlay(opts, cmd))
	assert.Contains(t, buf.String(), "Run: run-1")

	j := testutil.OpenJournal(t, dbPath)

	run, err := j.Run(t.Context(), "run-1")
	require.NoError(t, err)
	assert.True(t, run.Finished)
	assert.Equal(t, "End", run.Final)
	assert.Len(t, run.Hand, 2)
	assert.Equal(t, 6, run.Stats.Dispatched)

	entries, err := j.Entries(t.Context(), "run-1")
	require.NoError(t, err)
	assert.Len(t, entries, 12)
}

func TestPlayJournalOpenFails(t *testing.T) {
	// A directory cannot be opened as a database file.
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "runs.db"), 0755))

	out, err := execute(t, "play", "--journal", filepath.Join(dir, "runs.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E004")
}
