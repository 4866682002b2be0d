package cli

import (
	"github.com/roach88/turnstile/internal/journal"
)

// openJournal opens the journal named by --journal, failing with a command
// error when none is configured.
func openJournal(f *OutputFormatter, path string) (*journal.Journal, error) {
	if path == "" {
		return nil, f.Fail(ExitCommandError, ErrCodeJournal,
			"no journal: pass --journal or set TURNSTILE_JOURNAL", nil)
	}
	j, err := journal.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}
	return j, nil
}
