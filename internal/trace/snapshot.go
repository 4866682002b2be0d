package trace

// Snapshot is a named trace ready for golden comparison.
type Snapshot struct {
	Name    string
	Entries []Entry
}

// Marshal returns the snapshot as canonical JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	entries := make([]any, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = e.canonical()
	}
	return MarshalCanonical(map[string]any{
		"name":  s.Name,
		"trace": entries,
	})
}
