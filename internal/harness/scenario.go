package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a whole-life conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed fixes the life's random source. Zero is rejected; scenarios must
	// be reproducible.
	Seed uint64 `yaml:"seed"`

	// LifeID is the fixed life identifier. Defaults to "scenario-<name>".
	LifeID string `yaml:"life_id,omitempty"`

	// Catalog is an optional CUE catalog path, relative to the scenario
	// file. Empty uses the built-in catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// Director selects the background director: "tension" (default) or "none".
	Director string `yaml:"director,omitempty"`

	// Character sets the starting character.
	Character CharacterSpec `yaml:"character"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// CharacterSpec overrides the starting character. Nil vitals keep the
// engine defaults.
type CharacterSpec struct {
	Name         string         `yaml:"name"`
	Age          int            `yaml:"age"`
	Money        int64          `yaml:"money"`
	Health       *int           `yaml:"health,omitempty"`
	Happiness    *int           `yaml:"happiness,omitempty"`
	Stress       *int           `yaml:"stress,omitempty"`
	Intelligence *int           `yaml:"intelligence,omitempty"`
	Skills       map[string]int `yaml:"skills,omitempty"`
}

// Step is one scenario operation. Exactly one field is set.
type Step struct {
	Advance  int      `yaml:"advance,omitempty"`
	Actions  []string `yaml:"actions,omitempty"`
	Resolve  string   `yaml:"resolve,omitempty"`
	Revive   bool     `yaml:"revive,omitempty"`
	Legacy   bool     `yaml:"legacy,omitempty"`
	Autoplay int      `yaml:"autoplay,omitempty"`
}

// Step operation names, as they appear in the trace.
const (
	OpAdvance  = "advance"
	OpActions  = "actions"
	OpResolve  = "resolve"
	OpRevive   = "revive"
	OpLegacy   = "legacy"
	OpAutoplay = "autoplay"
)

// Op returns the operation the step performs, or "" when none or more than
// one field is set.
func (s Step) Op() string {
	var ops []string
	if s.Advance > 0 {
		ops = append(ops, OpAdvance)
	}
	if len(s.Actions) > 0 {
		ops = append(ops, OpActions)
	}
	if s.Resolve != "" {
		ops = append(ops, OpResolve)
	}
	if s.Revive {
		ops = append(ops, OpRevive)
	}
	if s.Legacy {
		ops = append(ops, OpLegacy)
	}
	if s.Autoplay > 0 {
		ops = append(ops, OpAutoplay)
	}
	if len(ops) != 1 {
		return ""
	}
	return ops[0]
}

// Assertion validates final state. Value's type depends on Type.
type Assertion struct {
	// Type specifies the assertion type:
	// - "alive": bool
	// - "fail_cause": string ("" for a living character)
	// - "age": exact age
	// - "seen_contains": event id recorded as seen
	// - "active_event": id of the active event ("" for none)
	// - "business_state": business state ("" for no business)
	// - "min_money": money is at least value
	// - "max_queue": at most value events are queued
	// - "history_contains": a telemetry record of this kind was persisted
	Type string `yaml:"type"`

	// Value is the expected value.
	Value any `yaml:"value"`
}

// Assertion type constants.
const (
	AssertAlive           = "alive"
	AssertFailCause       = "fail_cause"
	AssertAge             = "age"
	AssertSeenContains    = "seen_contains"
	AssertActiveEvent     = "active_event"
	AssertBusinessState   = "business_state"
	AssertMinMoney        = "min_money"
	AssertMaxQueue        = "max_queue"
	AssertHistoryContains = "history_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative catalog path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}
	if scenario.Catalog != "" {
		if _, err := os.Stat(scenario.Catalog); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: catalog file not found: %s", scenario.Catalog)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.LifeID == "" {
		scenario.LifeID = "scenario-" + scenario.Name
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Seed == 0 {
		return fmt.Errorf("seed is required and must be non-zero")
	}
	switch s.Director {
	case "", "tension", "none":
	default:
		return fmt.Errorf("unknown director %q (want tension or none)", s.Director)
	}
	if s.Character.Age < 0 {
		return fmt.Errorf("character.age must be non-negative")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Advance < 0 || step.Autoplay < 0 {
			return fmt.Errorf("steps[%d]: counts must be positive", i)
		}
		if step.Op() == "" {
			return fmt.Errorf("steps[%d]: exactly one of advance, actions, resolve, revive, legacy, autoplay is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion checks the assertion type and its value's type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAlive:
		if _, ok := a.Value.(bool); !ok {
			return fmt.Errorf("assertions[%d]: %s needs a bool value", index, a.Type)
		}
	case AssertFailCause, AssertActiveEvent, AssertBusinessState:
		if a.Value == nil {
			return nil
		}
		if _, ok := a.Value.(string); !ok {
			return fmt.Errorf("assertions[%d]: %s needs a string value", index, a.Type)
		}
	case AssertSeenContains, AssertHistoryContains:
		if s, ok := a.Value.(string); !ok || s == "" {
			return fmt.Errorf("assertions[%d]: %s needs a non-empty string value", index, a.Type)
		}
	case AssertAge, AssertMinMoney, AssertMaxQueue:
		if _, ok := a.Value.(int); !ok {
			return fmt.Errorf("assertions[%d]: %s needs an integer value", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
