package harness

import (
	"github.com/roach88/turnstile/internal/machine"
	"github.com/roach88/turnstile/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace is the first run's trace as read back from the journal.
	Trace []trace.Entry `json:"trace"`

	// Hand is the blind's cards at halt, by name.
	Hand []string `json:"hand"`

	// Final is the state the machine halted in. Empty if the run failed.
	Final string `json:"final,omitempty"`

	Stats   machine.Stats `json:"stats"`
	Refills int           `json:"refills"`

	// Runs is how many times the game was played.
	Runs int `json:"runs"`

	// RunError is set when the first run stopped with an error.
	RunError string `json:"run_error,omitempty"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	runErr  error
	repeats []outcome
}

// outcome is one play of a scenario's game.
type outcome struct {
	trace   []trace.Entry
	hand    []string
	final   string
	stats   machine.Stats
	refills int
	err     error
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Entry{},
		Hand:   []string{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// setFirst fills the result from the first play.
func (r *Result) setFirst(o outcome) {
	r.Trace = o.trace
	r.Hand = o.hand
	r.Final = o.final
	r.Stats = o.stats
	r.Refills = o.refills
	r.runErr = o.err
	if o.err != nil {
		r.RunError = o.err.Error()
	}
}
