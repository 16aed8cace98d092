package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: test_scenario
description: "Stop codons in a short read"
automaton: NFA
pattern: "TAA|TAG|TGA"
sequence: ATGTAAGTGA
run_id: test-run-001
assertions:
  - type: matches
    matches: [[3, 5], [7, 9]]
  - type: match_count
    count: 2
  - type: trace_contains
    index: 5
    text: "[MATCHED 'TAA']"
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "NFA", scenario.Automaton)
	assert.Equal(t, "TAA|TAG|TGA", scenario.Pattern)
	assert.Equal(t, "test-run-001", scenario.RunID)
	require.Len(t, scenario.Assertions, 3)
	assert.Equal(t, [][]int{{3, 5}, {7, 9}}, scenario.Assertions[0].Matches)
	require.NotNil(t, scenario.Assertions[1].Count)
	assert.Equal(t, 2, *scenario.Assertions[1].Count)
	require.NotNil(t, scenario.Assertions[2].Index)
	assert.Equal(t, 5, *scenario.Assertions[2].Index)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: "misspelled field"
automaton: DFA
patern: ATG
sequence: ATG
assertions:
  - type: deterministic
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "patern")
}

func TestLoadScenario_LibraryResolvedRelativeToFile(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "lib")
	scenDir := filepath.Join(root, "lib", "scenarios")
	require.NoError(t, os.MkdirAll(scenDir, 0755))

	path := writeScenario(t, scenDir, "s.yaml", `
name: lib_scenario
description: "uses a library motif"
library: ".."
motif: start
sequence: ATG
assertions:
  - type: match_count
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, libDir, scenario.Library)
}

func TestValidateScenario(t *testing.T) {
	count := func(n int) *int { return &n }
	base := func() *Scenario {
		return &Scenario{
			Name:        "s",
			Description: "d",
			Automaton:   "DFA",
			Pattern:     "ATG",
			Assertions:  []Assertion{{Type: AssertDeterministic}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"valid", func(s *Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no engine", func(s *Scenario) { s.Automaton = "" }, "automaton or motif is required"},
		{"both engine sources", func(s *Scenario) {
			s.Motif = "m"
			s.Library = "."
		}, "mutually exclusive"},
		{"motif without library", func(s *Scenario) {
			s.Automaton = ""
			s.Pattern = ""
			s.Motif = "m"
		}, "library is required"},
		{"library without motif", func(s *Scenario) { s.Library = "." }, "motif is required"},
		{"motif with pattern", func(s *Scenario) {
			s.Automaton = ""
			s.Motif = "m"
			s.Library = "."
		}, "come from the library"},
		{"missing library dir", func(s *Scenario) {
			s.Automaton = ""
			s.Pattern = ""
			s.Motif = "m"
			s.Library = "/nonexistent/lib"
		}, "library not found"},
		{"negative min length", func(s *Scenario) { s.MinLength = -1 }, "non-negative"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"assertion without type", func(s *Scenario) { s.Assertions = []Assertion{{}} }, "type is required"},
		{"unknown assertion", func(s *Scenario) { s.Assertions = []Assertion{{Type: "trace_order"}} }, "unknown assertion type"},
		{"bad match pair", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertMatches, Matches: [][]int{{1, 2, 3}}}}
		}, "[start, end] pair"},
		{"count missing", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertMatchCount}} }, "count is required"},
		{"negative count", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertMatchCount, Count: count(-1)}}
		}, "count must be non-negative"},
		{"text missing", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertTraceContains}} }, "text is required"},
		{"negative index", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertTraceContains, Text: "x", Index: count(-2)}}
		}, "index must be non-negative"},
		{"states missing", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertFinalStates}} }, "states list is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
