package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name        string   `json:"name"`
	Pass        bool     `json:"pass"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario harness",
		Long: `Run motif scenarios using the harness framework.

Executes every scenario file in the directory, checking its assertions
and, when <scenarios-dir>/golden/<name>.golden exists, comparing the
recorded trace byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  motifsim test ./testdata/scenarios
  motifsim test ./testdata/scenarios --filter "tata*"
  motifsim test ./testdata/scenarios --update
  motifsim test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	if len(files) == 0 && opts.Format != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return WrapExitError(ExitFailure, "test run interrupted", err)
		}
		sr := runScenario(ctx, file, opts.Update)
		slog.Debug("scenario finished", "file", file, "pass", sr.Pass)
		if opts.Format != "json" {
			printScenario(cmd.OutOrStdout(), sr)
		}
		result.Scenarios = append(result.Scenarios, sr.ScenarioResult)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// scenarioOutcome is a ScenarioResult plus the detail lines shown in text
// mode.
type scenarioOutcome struct {
	ScenarioResult
	note   string   // suffix after the name, e.g. "golden updated"
	detail []string // indented lines under a failure
}

// findScenarioFiles finds all YAML scenario files under dir, sorted. A
// non-empty filter is matched against the file name without extension.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	slices.Sort(files)
	return files, err
}

// runScenario loads and runs one scenario file. With update set the golden
// file is rewritten; otherwise an existing golden file must match byte for
// byte in addition to the assertions.
func runScenario(ctx context.Context, file string, update bool) scenarioOutcome {
	fail := func(name, label string, err error) scenarioOutcome {
		return scenarioOutcome{
			ScenarioResult: ScenarioResult{Name: name, Errors: []string{fmt.Sprintf("%s: %v", strings.ToLower(label), err)}},
			detail:         []string{fmt.Sprintf("%s: %v", label, err)},
		}
	}

	// Library paths resolve relative to the scenario file
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return fail(filepath.Base(file), "Load error", err)
	}
	result, err := harness.RunContext(ctx, scenario)
	if err != nil {
		return fail(scenario.Name, "Execution error", err)
	}

	out := scenarioOutcome{ScenarioResult: ScenarioResult{
		Name:        scenario.Name,
		Pass:        result.Pass,
		Fingerprint: result.Fingerprint,
		Errors:      result.Errors,
	}}
	out.detail = slices.Clone(result.Errors)

	goldenPath := goldenFilePath(file)
	switch {
	case update:
		if err := updateGoldenFile(scenario, result, goldenPath); err != nil {
			return fail(scenario.Name, "Golden update error", err)
		}
		out.note = "golden updated"
	case fileExists(goldenPath):
		match, err := compareWithGolden(scenario, result, goldenPath)
		if err != nil {
			return fail(scenario.Name, "Golden comparison error", err)
		}
		if !match {
			out.Pass = false
			out.Errors = append(out.Errors, "trace does not match golden file")
			out.detail = append(out.detail, "Golden file mismatch (run with --update to regenerate)")
		}
	}
	if !out.Pass {
		out.Fingerprint = ""
	}
	return out
}

func printScenario(w io.Writer, sr scenarioOutcome) {
	switch {
	case sr.Pass && sr.note != "":
		fmt.Fprintf(w, "✓ %s (%s)\n", sr.Name, sr.note)
	case sr.Pass:
		fmt.Fprintf(w, "✓ %s\n", sr.Name)
	default:
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, line := range sr.detail {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// updateGoldenFile writes the current snapshot as the golden file.
func updateGoldenFile(scenario *harness.Scenario, result *harness.Result, goldenPath string) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}

	data, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}

	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden compares the result snapshot against the golden file.
func compareWithGolden(scenario *harness.Scenario, result *harness.Result, goldenPath string) (bool, error) {
	goldenData, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}

	currentData, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal current trace: %w", err)
	}

	return bytes.Equal(goldenData, currentData), nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}

	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    ErrCodeScenarioFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
