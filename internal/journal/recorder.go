package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/turnstile/internal/trace"
)

// Recorder appends trace entries to one run as they happen.
//
// Hook it to a collector with Collector.OnEntry(rec.Record). A failed write
// is logged and the run carries on; Err reports the first failure once the
// run is over.
type Recorder struct {
	ctx     context.Context
	journal *Journal
	runID   string
	logger  *slog.Logger

	written int
	err     error
}

// NewRecorder creates a Recorder writing to runID. A nil logger uses
// slog.Default().
func NewRecorder(ctx context.Context, j *Journal, runID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{ctx: ctx, journal: j, runID: runID, logger: logger}
}

// Record writes e.
func (r *Recorder) Record(e trace.Entry) {
	if err := r.journal.AppendEntry(r.ctx, r.runID, e); err != nil {
		r.logger.Warn("journal write failed",
			"run", r.runID,
			"seq", e.Seq,
			"error", err,
		)
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.written++
}

// Written returns how many entries were stored.
func (r *Recorder) Written() int {
	return r.written
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	return r.err
}
