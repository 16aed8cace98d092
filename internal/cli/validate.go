package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/harness"
	"github.com/roach88/motifsim/internal/library"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Scenarios bool // also run each motif's attached scenario
}

// ValidationIssue is one problem found in a library.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                      `json:"valid"`
	Motifs    []string                  `json:"motifs"`
	Files     int                       `json:"files"`
	Errors    []ValidationIssue         `json:"errors,omitempty"`
	Scenarios *harness.ValidationResult `json:"scenarios,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <library-dir>",
		Short: "Validate a CUE motif library",
		Long: `Validate every motif in a CUE motif library.

Each motif must name a supported automaton and a pattern that engine
accepts. With --scenarios, the scenario file attached to each motif is
run through the harness as well.

Exit codes:
  0 - Library valid
  1 - One or more motifs invalid, or a motif scenario failed
  2 - Command error (directory missing, no CUE files, CUE syntax error)

Examples:
  motifsim validate ./testdata/library
  motifsim validate ./testdata/library --scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Scenarios, "scenarios", false, "run the scenario attached to each motif")

	return cmd
}

func runValidate(opts *ValidateOptions, libDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	lib, loadErrors := library.Load(libDir, library.LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if lib == nil {
		var loadErr *library.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, library.ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", lib.FileCount, libDir)
	for _, m := range lib.Motifs {
		formatter.VerboseLog("Motif %s: %s %s", m.Name, m.Kind, m.Pattern)
	}

	result := ValidationResult{
		Valid:  true,
		Motifs: lib.Names(),
		Files:  lib.FileCount,
	}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, toIssue(err))
	}

	if opts.Scenarios {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sr, err := harness.ValidateMotifScenarios(ctx, lib)
		if err != nil {
			return WrapExitError(ExitFailure, "scenario validation interrupted", err)
		}
		result.Scenarios = sr
		for _, f := range sr.Failures {
			result.Errors = append(result.Errors, ValidationIssue{
				Code:    ErrCodeValidateFailure,
				Message: fmt.Sprintf("motif %s: %s", f.Motif, f.Error),
				File:    f.ScenarioPath,
			})
		}
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// toIssue converts a library error to a ValidationIssue, keeping the CUE
// position when there is one.
func toIssue(err error) ValidationIssue {
	var le *library.LoadError
	if !errors.As(err, &le) {
		return ValidationIssue{Code: library.ErrCodeGeneric, Message: err.Error()}
	}
	issue := ValidationIssue{Code: le.Code, Message: le.Message}
	if le.Pos.IsValid() {
		issue.File = filepath.Base(le.Pos.Filename())
		issue.Line = le.Pos.Line()
	}
	return issue
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Library valid: %d motif(s) in %d file(s)\n", len(result.Motifs), result.Files)
	if sr := result.Scenarios; sr != nil {
		fmt.Fprintf(formatter.Writer, "✓ %d motif scenario(s) passed, %d motif(s) without scenario\n", sr.Passed, sr.Skipped)
	}
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Unreadable libraries are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.File != "" && err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.File, err.Line)
		} else if err.File != "" {
			fmt.Fprintf(formatter.Writer, "%s\n", err.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}
	return failure
}
