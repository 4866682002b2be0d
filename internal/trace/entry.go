package trace

import "fmt"

// EntryType distinguishes trace entries.
type EntryType string

const (
	// EntryTransition records the machine moving to a new state.
	EntryTransition EntryType = "transition"
	// EntryDispatch records an event handed to its consumers.
	EntryDispatch EntryType = "dispatch"
	// EntryUnclaimed records an event no consumer observed.
	EntryUnclaimed EntryType = "unclaimed"
	// EntrySpawn records a consumer registered mid-run.
	EntrySpawn EntryType = "spawn"
	// EntryHalt records the transition stopping the machine.
	EntryHalt EntryType = "halt"
)

// Entry is one step of a run.
type Entry struct {
	Seq  int64     `json:"seq"`
	Type EntryType `json:"type"`

	// From and To are set for transitions. To alone is set for halt.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// Event and State are set for dispatch and unclaimed entries. For spawn,
	// State lists the new consumer's states, comma separated.
	Event string `json:"event,omitempty"`
	State string `json:"state,omitempty"`

	// Count is the consumer count for dispatch, the seed count for
	// transition, and the consumer index for spawn.
	Count int `json:"count"`
}

// canonical returns the entry as a map for MarshalCanonical, leaving out
// empty fields.
func (e Entry) canonical() map[string]any {
	m := map[string]any{
		"seq":   e.Seq,
		"type":  string(e.Type),
		"count": e.Count,
	}
	if e.From != "" {
		m["from"] = e.From
	}
	if e.To != "" {
		m["to"] = e.To
	}
	if e.Event != "" {
		m["event"] = e.Event
	}
	if e.State != "" {
		m["state"] = e.State
	}
	return m
}

// String describes the entry on one line.
func (e Entry) String() string {
	switch e.Type {
	case EntryTransition:
		return fmt.Sprintf("transition %s -> %s (%d seeds)", e.From, e.To, e.Count)
	case EntryDispatch:
		return fmt.Sprintf("dispatch %s to %d consumers", e.Event, e.Count)
	case EntryUnclaimed:
		return fmt.Sprintf("unclaimed %s in %s", e.Event, e.State)
	case EntrySpawn:
		return fmt.Sprintf("spawn consumer %d for %s", e.Count, e.State)
	case EntryHalt:
		return fmt.Sprintf("halt in %s", e.To)
	default:
		return string(e.Type)
	}
}
