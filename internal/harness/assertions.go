package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/turnstile/internal/machine"
	"github.com/roach88/turnstile/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Entry // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, entry := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", entry.Seq, entry)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
// A run error fails the scenario unless a steps_exceeded assertion expects it.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	expectsError := false
	for _, a := range assertions {
		if a.Type == AssertStepsExceeded {
			expectsError = true
		}
	}
	if result.runErr != nil && !expectsError {
		errs = append(errs, fmt.Sprintf("run failed: %v", result.runErr))
	}

	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		return assertFinalState(result, a)
	case AssertHandSize:
		return assertCount(AssertHandSize, a.Count, len(result.Hand), result.Trace)
	case AssertRefills:
		return assertCount(AssertRefills, a.Count, result.Refills, result.Trace)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertStats:
		return assertStats(result.Stats, a, result.Trace)
	case AssertDeterministic:
		return assertDeterministic(result)
	case AssertStepsExceeded:
		return assertStepsExceeded(result)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertFinalState(result *Result, a Assertion) error {
	if result.Final == a.State {
		return nil
	}
	actual := result.Final
	if actual == "" {
		actual = "no final state (run did not halt)"
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: a.State,
		Actual:   actual,
		Trace:    result.Trace,
	}
}

func assertCount(kind string, want, got int, tr []trace.Entry) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", got),
		Trace:    tr,
	}
}

// assertTraceOrder checks dispatched events appear in the given order.
// Events don't need to be consecutive and may repeat; each expected event is
// matched at or after the previous match.
func assertTraceOrder(tr []trace.Entry, a Assertion) error {
	pos := 0
	for _, want := range a.Events {
		found := false
		for pos < len(tr) {
			e := tr[pos]
			pos++
			if e.Type == trace.EntryDispatch && e.Event == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order %v", a.Events),
				Actual:   fmt.Sprintf("%s not dispatched after the previous event", want),
				Trace:    tr,
			}
		}
	}
	return nil
}

// assertTraceCount counts entries of a type, filtered by event and state
// when those are set.
func assertTraceCount(tr []trace.Entry, a Assertion) error {
	n := 0
	for _, e := range tr {
		if string(e.Type) != a.Entry {
			continue
		}
		if a.Event != "" && e.Event != a.Event {
			continue
		}
		if a.State != "" && e.State != a.State {
			continue
		}
		n++
	}
	if n == a.Count {
		return nil
	}

	what := a.Entry
	if a.Event != "" {
		what += " " + a.Event
	}
	if a.State != "" {
		what += " in " + a.State
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s x%d", what, a.Count),
		Actual:   fmt.Sprintf("%s x%d", what, n),
		Trace:    tr,
	}
}

// assertStats compares only the counters named in Expect.
func assertStats(stats machine.Stats, a Assertion, tr []trace.Entry) error {
	actual := map[string]int{
		"dispatched":  stats.Dispatched,
		"deliveries":  stats.Deliveries,
		"unclaimed":   stats.Unclaimed,
		"spawned":     stats.Spawned,
		"transitions": stats.Transitions,
	}

	names := make([]string, 0, len(a.Expect))
	for name := range a.Expect {
		names = append(names, name)
	}
	sort.Strings(names)

	var mismatches []string
	for _, name := range names {
		if got, want := actual[name], a.Expect[name]; got != want {
			mismatches = append(mismatches, fmt.Sprintf("%s=%d (want %d)", name, got, want))
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertStats,
		Expected: fmt.Sprintf("%v", a.Expect),
		Actual:   strings.Join(mismatches, ", "),
		Trace:    tr,
	}
}

// assertDeterministic checks every repeat matched the first play.
func assertDeterministic(result *Result) error {
	if len(result.repeats) == 0 {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: "at least two runs",
			Actual:   "1 run",
		}
	}
	for i, o := range result.repeats {
		run := i + 2
		if !slices.Equal(o.trace, result.Trace) {
			return &AssertionError{
				Type:     AssertDeterministic,
				Expected: "identical traces",
				Actual:   fmt.Sprintf("run %d trace differs from run 1", run),
				Trace:    o.trace,
			}
		}
		if !slices.Equal(o.hand, result.Hand) {
			return &AssertionError{
				Type:     AssertDeterministic,
				Expected: fmt.Sprintf("hand %v", result.Hand),
				Actual:   fmt.Sprintf("run %d hand %v", run, o.hand),
			}
		}
	}
	return nil
}

func assertStepsExceeded(result *Result) error {
	if machine.IsStepsExceededError(result.runErr) {
		return nil
	}
	actual := "run halted normally"
	if result.runErr != nil {
		actual = result.runErr.Error()
	}
	return &AssertionError{
		Type:     AssertStepsExceeded,
		Expected: "run stopped by max_steps",
		Actual:   actual,
		Trace:    result.Trace,
	}
}
