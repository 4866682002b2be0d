// Package harness runs YAML game scenarios and checks their traces.
//
// # Scenario Format
//
//	name: blind_draw_default
//	description: "Two cards reach the blind"
//	rules:               # inline; or rules_file: path/to/rules.cue
//	  seed: "00...00"    # 64 hex characters
//	  draws: 2
//	max_steps: 0         # optional step quota
//	repeat: 3            # play the game this many times
//	assertions:
//	  - type: final_state
//	    state: End
//	  - type: hand_size
//	    count: 2
//	  - type: trace_order
//	    events: [Init, StartRound, RequestDraw, Draw]
//	  - type: trace_count
//	    entry: dispatch
//	    event: Draw
//	    count: 2
//	  - type: stats
//	    expect: { dispatched: 6, deliveries: 7 }
//	  - type: deterministic
//
// A rules_file path is resolved relative to the scenario file.
//
// # Assertion Types
//
//   - final_state: the machine halted in the named state
//   - hand_size: the blind holds exactly count cards
//   - refills: the deck was refilled exactly count times
//   - trace_order: dispatched events appear in this relative order
//   - trace_count: entries of a type, optionally filtered by event or state, occur count times
//   - stats: machine counters match (subset match)
//   - deterministic: every repeat produced the same trace and hand
//   - steps_exceeded: the run stopped on its max_steps quota
//
// # Deterministic Testing
//
// Runs use a fresh logical clock and fixed run ids, and journal their trace
// to an in-memory SQLite database. The trace a scenario is checked against
// is the one read back from that journal. Event labels carry no card values,
// so traces depend only on the rules' draw count and can be compared against
// golden files in testdata/golden.
package harness
