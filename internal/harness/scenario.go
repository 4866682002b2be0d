package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/rules"
	"github.com/roach88/turnstile/internal/trace"
)

// Scenario defines one harness run.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules are given inline. Mutually exclusive with RulesFile; with
	// neither, game.DefaultRules are played.
	Rules *InlineRules `yaml:"rules,omitempty"`

	// RulesFile is a .cue rules file, relative to the scenario file.
	RulesFile string `yaml:"rules_file,omitempty"`

	// MaxSteps caps machine steps. Zero means no limit.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Repeat is how many times the game is played. Defaults to 1, or 2 when
	// a deterministic assertion is present.
	Repeat int `yaml:"repeat,omitempty"`

	// Assertions validate the outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// InlineRules mirror the fields of a rules file.
type InlineRules struct {
	Name  string `yaml:"name,omitempty"`
	Seed  string `yaml:"seed,omitempty"`
	Draws int    `yaml:"draws,omitempty"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// State is the expected final state (final_state), or a state filter
	// (trace_count).
	State string `yaml:"state,omitempty"`

	// Entry is the trace entry type to count (trace_count).
	Entry string `yaml:"entry,omitempty"`

	// Event filters entries by event label (trace_count).
	Event string `yaml:"event,omitempty"`

	// Events is the expected dispatch order (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Count is the expected number (hand_size, refills, trace_count).
	Count int `yaml:"count,omitempty"`

	// Expect holds expected counters by JSON name (stats).
	Expect map[string]int `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState    = "final_state"
	AssertHandSize      = "hand_size"
	AssertRefills       = "refills"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertStats         = "stats"
	AssertDeterministic = "deterministic"
	AssertStepsExceeded = "steps_exceeded"
)

var statNames = map[string]bool{
	"dispatched":  true,
	"deliveries":  true,
	"unclaimed":   true,
	"spawned":     true,
	"transitions": true,
}

var entryTypes = map[string]bool{
	string(trace.EntryTransition): true,
	string(trace.EntryDispatch):   true,
	string(trace.EntryUnclaimed):  true,
	string(trace.EntrySpawn):      true,
	string(trace.EntryHalt):       true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.RulesFile != "" && !filepath.IsAbs(scenario.RulesFile) {
		scenario.RulesFile = filepath.Join(filepath.Dir(path), scenario.RulesFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// GameRules resolves the rules the scenario plays.
func (s *Scenario) GameRules() (game.Rules, error) {
	if s.RulesFile != "" {
		return rules.Load(s.RulesFile)
	}

	r := game.DefaultRules()
	if s.Rules == nil {
		return r, nil
	}
	if s.Rules.Name != "" {
		r.Name = s.Rules.Name
	}
	if s.Rules.Seed != "" {
		seed, err := cards.ParseSeed(s.Rules.Seed)
		if err != nil {
			return game.Rules{}, fmt.Errorf("rules.seed: %w", err)
		}
		r.Seed = seed
	}
	if s.Rules.Draws != 0 {
		r.Draws = s.Rules.Draws
	}
	return r, r.Validate()
}

// runs returns how many times the scenario's game is played.
func (s *Scenario) runs() int {
	n := s.Repeat
	if n < 1 {
		n = 1
	}
	if n < 2 {
		for _, a := range s.Assertions {
			if a.Type == AssertDeterministic {
				n = 2
			}
		}
	}
	return n
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Rules != nil && s.RulesFile != "" {
		return fmt.Errorf("rules and rules_file are mutually exclusive")
	}

	if s.RulesFile != "" {
		if _, err := os.Stat(s.RulesFile); os.IsNotExist(err) {
			return fmt.Errorf("rules file not found: %s", s.RulesFile)
		}
	}

	if s.Rules != nil && s.Rules.Draws < 0 {
		return fmt.Errorf("rules.draws must be non-negative")
	}

	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}

	if s.Repeat < 0 {
		return fmt.Errorf("repeat must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	switch a.Type {
	case AssertFinalState:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for final_state", index)
		}
		if _, err := game.ParseState(a.State); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertHandSize, AssertRefills, AssertDeterministic, AssertStepsExceeded:
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Entry == "" {
			return fmt.Errorf("assertions[%d]: entry is required for trace_count", index)
		}
		if !entryTypes[a.Entry] {
			return fmt.Errorf("assertions[%d]: unknown entry type %q", index, a.Entry)
		}
	case AssertStats:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for stats", index)
		}
		for name := range a.Expect {
			if !statNames[name] {
				return fmt.Errorf("assertions[%d]: unknown stat %q", index, name)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
