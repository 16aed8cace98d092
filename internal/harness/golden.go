package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/motifsim/internal/trace"
)

// TraceSnapshot captures what a golden file pins for one scenario run.
type TraceSnapshot struct {
	ScenarioName      string       `json:"scenario_name"`
	Trace             *trace.Trace `json:"trace,omitempty"`
	ConstructionError string       `json:"construction_error,omitempty"`
}

// toCanonicalMap converts a TraceSnapshot to the map form accepted by
// trace.MarshalCanonical.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	out := map[string]any{
		"scenario_name": s.ScenarioName,
	}
	if s.Trace != nil {
		out["trace"] = s.Trace.CanonicalMap()
	}
	if s.ConstructionError != "" {
		out["construction_error"] = s.ConstructionError
	}
	return out
}

// Snapshot returns the canonical golden bytes for a scenario result.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName:      scenarioName,
		Trace:             result.Trace,
		ConstructionError: result.ConstructionError,
	}
	return trace.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
