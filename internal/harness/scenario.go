package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one motif-search run and the assertions it must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Automaton is a variant tag or alias (DFA, NFA, ENFA, PDA, exact, ...).
	Automaton string `yaml:"automaton,omitempty"`

	// Pattern is the construction pattern for Automaton.
	Pattern string `yaml:"pattern,omitempty"`

	// MinLength is the palindrome minimum window length.
	MinLength int `yaml:"min_length,omitempty"`

	// Library and Motif select a library entry instead of Automaton/Pattern.
	Library string `yaml:"library,omitempty"`
	Motif   string `yaml:"motif,omitempty"`

	// Sequence is the input scanned by the engine.
	Sequence string `yaml:"sequence"`

	// RunID pins the trace run ID. Defaults to testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Assertions validate the recorded trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a run.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Matches lists expected [start, end] windows (matches).
	Matches [][]int `yaml:"matches,omitempty"`

	// Count is the expected number of matches (match_count).
	Count *int `yaml:"count,omitempty"`

	// Text must appear in a step narration (trace_contains).
	Text string `yaml:"text,omitempty"`

	// Index restricts trace_contains to one step.
	Index *int `yaml:"index,omitempty"`

	// Steps lists the step indices expected to complete a match
	// (accepted_steps).
	Steps []int `yaml:"steps,omitempty"`

	// States is the expected final configuration (final_states).
	States []int `yaml:"states,omitempty"`

	// Error must appear in the construction error (construction_error).
	Error string `yaml:"error,omitempty"`
}

// Assertion type constants.
const (
	AssertMatches           = "matches"
	AssertMatchCount        = "match_count"
	AssertTraceContains     = "trace_contains"
	AssertAcceptedSteps     = "accepted_steps"
	AssertFinalStates       = "final_states"
	AssertDeterministic     = "deterministic"
	AssertConstructionError = "construction_error"
)

// LoadScenario reads and parses a scenario YAML file. Relative library
// paths are resolved against the scenario file's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file, resolving
// a relative library path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Library != "" && !filepath.IsAbs(scenario.Library) && basePath != "" {
		scenario.Library = filepath.Join(basePath, scenario.Library)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field checking. It does
// not validate the result.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
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

	switch {
	case s.Motif != "" && s.Automaton != "":
		return fmt.Errorf("automaton and motif are mutually exclusive")
	case s.Motif != "" && s.Library == "":
		return fmt.Errorf("library is required when motif is set")
	case s.Motif == "" && s.Library != "":
		return fmt.Errorf("motif is required when library is set")
	case s.Motif == "" && s.Automaton == "":
		return fmt.Errorf("automaton or motif is required")
	}
	if s.Motif != "" && (s.Pattern != "" || s.MinLength != 0) {
		return fmt.Errorf("pattern and min_length come from the library when motif is set")
	}
	if s.MinLength < 0 {
		return fmt.Errorf("min_length must be non-negative")
	}

	if s.Library != "" {
		if _, err := os.Stat(s.Library); os.IsNotExist(err) {
			return fmt.Errorf("library not found: %s", s.Library)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
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

	switch a.Type {
	case AssertMatches:
		for j, pair := range a.Matches {
			if len(pair) != 2 {
				return fmt.Errorf("assertions[%d]: matches[%d] must be a [start, end] pair", index, j)
			}
		}
	case AssertMatchCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for match_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for match_count", index)
		}
	case AssertTraceContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for trace_contains", index)
		}
		if a.Index != nil && *a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for trace_contains", index)
		}
	case AssertAcceptedSteps:
	case AssertFinalStates:
		if len(a.States) == 0 {
			return fmt.Errorf("assertions[%d]: states list is required for final_states", index)
		}
	case AssertDeterministic, AssertConstructionError:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
