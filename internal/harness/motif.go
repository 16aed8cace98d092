package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/motifsim/internal/library"
)

// ScenarioNotFoundError is returned when a motif references a scenario file
// that doesn't exist.
type ScenarioNotFoundError struct {
	Motif        string
	ScenarioPath string
	ResolvedPath string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf(
		"motif %q references scenario file %q which does not exist (resolved to: %s)",
		e.Motif,
		e.ScenarioPath,
		e.ResolvedPath,
	)
}

// ExtractScenarios returns the scenario file a motif references, resolved
// against libDir. A motif without a scenario yields an empty slice.
func ExtractScenarios(m library.Motif, libDir string) ([]string, error) {
	if m.Scenario == "" {
		return []string{}, nil
	}

	scenarioPath := m.Scenario
	if !filepath.IsAbs(scenarioPath) {
		scenarioPath = filepath.Join(libDir, scenarioPath)
	}
	if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
		return nil, &ScenarioNotFoundError{
			Motif:        m.Name,
			ScenarioPath: m.Scenario,
			ResolvedPath: scenarioPath,
		}
	}
	return []string{scenarioPath}, nil
}

// ValidationResult summarizes a run over a library's motif scenarios.
type ValidationResult struct {
	TotalMotifs    int            `json:"total_motifs"`
	TotalScenarios int            `json:"total_scenarios"`
	Passed         int            `json:"passed"`
	Failed         int            `json:"failed"`
	Skipped        int            `json:"skipped"` // Motifs without scenarios
	Failures       []MotifFailure `json:"failures,omitempty"`
}

// MotifFailure represents one failed motif scenario.
type MotifFailure struct {
	Motif        string `json:"motif"`
	ScenarioPath string `json:"scenario_path"`
	Error        string `json:"error"`
}

// ValidateMotifScenarios runs the scenario attached to each motif in lib.
//
// A scenario attached to a motif must exercise that motif: it has to name
// the same entry through its motif field.
func ValidateMotifScenarios(ctx context.Context, lib *library.Library) (*ValidationResult, error) {
	result := &ValidationResult{}

	for _, m := range lib.Motifs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.TotalMotifs++

		fail := func(path, msg string) {
			result.Failed++
			result.Failures = append(result.Failures, MotifFailure{
				Motif:        m.Name,
				ScenarioPath: path,
				Error:        msg,
			})
		}

		scenarioPaths, err := ExtractScenarios(m, lib.Dir)
		if err != nil {
			fail(m.Scenario, err.Error())
			continue
		}
		if len(scenarioPaths) == 0 {
			result.Skipped++
			continue
		}

		for _, scenarioPath := range scenarioPaths {
			result.TotalScenarios++

			scenario, err := LoadScenario(scenarioPath)
			if err != nil {
				fail(scenarioPath, fmt.Sprintf("failed to load scenario: %v", err))
				continue
			}
			if scenario.Motif != m.Name {
				fail(scenarioPath, fmt.Sprintf("scenario exercises %q, not %q", scenario.Motif, m.Name))
				continue
			}

			runResult, err := RunContext(ctx, scenario)
			if err != nil {
				fail(scenarioPath, fmt.Sprintf("scenario execution failed: %v", err))
				continue
			}
			if !runResult.Pass {
				fail(scenarioPath, fmt.Sprintf("scenario assertions failed: %v", runResult.Errors))
				continue
			}
			result.Passed++
		}
	}

	return result, nil
}
