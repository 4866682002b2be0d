// Package testutil holds fixtures shared by package tests: fixed seeds,
// quiet loggers and throwaway journals.
package testutil

import (
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/journal"
)

// Seed returns a seed with every byte set to fill.
func Seed(fill byte) cards.Seed {
	var s cards.Seed
	for i := range s {
		s[i] = fill
	}
	return s
}

// SeedHex is Seed in the 64-character hex form flags and rules files take.
func SeedHex(fill byte) string {
	s := Seed(fill)
	return hex.EncodeToString(s[:])
}

// DiscardLogger drops everything. Runs log at Info, which would otherwise
// clutter test output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// JournalPath returns a journal path in a directory removed after the test.
func JournalPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "runs.db")
}

// OpenJournal opens the journal at path and closes it when the test ends.
func OpenJournal(t testing.TB, path string) *journal.Journal {
	t.Helper()
	j, err := journal.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}
