package harness

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/motifsim/internal/automaton"
	"github.com/roach88/motifsim/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes the step narration to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    *trace.Trace // Recorded run, nil if the engine was not built
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Trace != nil && len(e.Trace.Events) > 0 {
		fmt.Fprintf(&buf, "\nNarration:\n")
		for _, ev := range e.Trace.Events {
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Index, ev.Description)
		}
	}
	return buf.String()
}

// AssertionContext provides what some assertions need beyond the result.
type AssertionContext struct {
	Ctx      context.Context
	Sequence string
	Build    BuildFunc // rebuilds the engine for the deterministic check
	RunID    string
}

// EvaluateAssertions runs all assertions and returns failure messages.
// An empty slice means every assertion held.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, assertion := range assertions {
		if err := evaluateAssertion(result, assertion, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, assertion.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, assertion Assertion, actx *AssertionContext) error {
	if assertion.Type == AssertConstructionError {
		return assertConstructionError(result, assertion)
	}
	if result.Trace == nil {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: "a recorded trace",
			Actual:   "construction failed: " + result.ConstructionError,
		}
	}

	switch assertion.Type {
	case AssertMatches:
		return assertMatches(result.Trace, assertion)
	case AssertMatchCount:
		return assertMatchCount(result.Trace, assertion)
	case AssertTraceContains:
		return assertTraceContains(result.Trace, assertion)
	case AssertAcceptedSteps:
		return assertAcceptedSteps(result.Trace, assertion)
	case AssertFinalStates:
		return assertFinalStates(result.Trace, assertion)
	case AssertDeterministic:
		return assertDeterministic(result.Trace, actx)
	default:
		return fmt.Errorf("unknown assertion type: %s", assertion.Type)
	}
}

// assertMatches checks the full, ordered match list.
func assertMatches(tr *trace.Trace, assertion Assertion) error {
	want := make([]automaton.Match, len(assertion.Matches))
	for i, pair := range assertion.Matches {
		want[i] = automaton.Match{Start: pair[0], End: pair[1]}
	}
	if slices.Equal(want, tr.Matches) {
		return nil
	}
	return &AssertionError{
		Type:     AssertMatches,
		Expected: formatMatches(want),
		Actual:   formatMatches(tr.Matches),
		Trace:    tr,
	}
}

func assertMatchCount(tr *trace.Trace, assertion Assertion) error {
	if len(tr.Matches) == *assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertMatchCount,
		Expected: fmt.Sprintf("%d matches", *assertion.Count),
		Actual:   fmt.Sprintf("%d matches %s", len(tr.Matches), formatMatches(tr.Matches)),
		Trace:    tr,
	}
}

// assertTraceContains checks step narration for a substring, at one index
// when Index is set.
func assertTraceContains(tr *trace.Trace, assertion Assertion) error {
	if assertion.Index != nil {
		idx := *assertion.Index
		if idx >= len(tr.Events) {
			return &AssertionError{
				Type:     AssertTraceContains,
				Expected: fmt.Sprintf("step %d containing %q", idx, assertion.Text),
				Actual:   fmt.Sprintf("trace has %d steps", len(tr.Events)),
				Trace:    tr,
			}
		}
		desc := tr.Events[idx].Description
		if strings.Contains(desc, assertion.Text) {
			return nil
		}
		return &AssertionError{
			Type:     AssertTraceContains,
			Expected: fmt.Sprintf("step %d containing %q", idx, assertion.Text),
			Actual:   fmt.Sprintf("%q", desc),
			Trace:    tr,
		}
	}

	for _, ev := range tr.Events {
		if strings.Contains(ev.Description, assertion.Text) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("a step containing %q", assertion.Text),
		Actual:   "not found in trace",
		Trace:    tr,
	}
}

func assertAcceptedSteps(tr *trace.Trace, assertion Assertion) error {
	got := tr.AcceptedSteps()
	if slices.Equal(got, assertion.Steps) || (len(got) == 0 && len(assertion.Steps) == 0) {
		return nil
	}
	return &AssertionError{
		Type:     AssertAcceptedSteps,
		Expected: fmt.Sprintf("%v", assertion.Steps),
		Actual:   fmt.Sprintf("%v", got),
		Trace:    tr,
	}
}

func assertFinalStates(tr *trace.Trace, assertion Assertion) error {
	states := make([]automaton.State, len(assertion.States))
	for i, n := range assertion.States {
		states[i] = automaton.State(n)
	}
	want := automaton.NewStateSet(states...)
	if want.Equal(tr.Final) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalStates,
		Expected: want.String(),
		Actual:   tr.Final.String(),
		Trace:    tr,
	}
}

// assertDeterministic rebuilds the engine, records the sequence again and
// compares canonical bytes. It also checks that repeated FindAllMatches
// calls on one engine agree.
func assertDeterministic(tr *trace.Trace, actx *AssertionContext) error {
	if actx == nil || actx.Build == nil {
		return fmt.Errorf("deterministic assertion requires a build function")
	}
	ctx := actx.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := actx.Build()
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	replay, _, err := newHarness(actx.RunID).record(ctx, a, actx.Sequence)
	if err != nil {
		return fmt.Errorf("re-record failed: %w", err)
	}

	want, err := tr.Canonical()
	if err != nil {
		return err
	}
	got, err := replay.Canonical()
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: "identical canonical trace on re-run",
			Actual:   fmt.Sprintf("traces differ (%d vs %d bytes)", len(want), len(got)),
			Trace:    tr,
		}
	}

	first := a.FindAllMatches(actx.Sequence)
	second := a.FindAllMatches(actx.Sequence)
	if !slices.Equal(first, second) {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: "repeated FindAllMatches to agree " + formatMatches(first),
			Actual:   formatMatches(second),
			Trace:    tr,
		}
	}
	return nil
}

func assertConstructionError(result *Result, assertion Assertion) error {
	if result.ConstructionError == "" {
		return &AssertionError{
			Type:     AssertConstructionError,
			Expected: "construction to fail",
			Actual:   "engine built successfully",
			Trace:    result.Trace,
		}
	}
	if assertion.Error != "" && !strings.Contains(result.ConstructionError, assertion.Error) {
		return &AssertionError{
			Type:     AssertConstructionError,
			Expected: fmt.Sprintf("error containing %q", assertion.Error),
			Actual:   fmt.Sprintf("%q", result.ConstructionError),
		}
	}
	return nil
}

func formatMatches(ms []automaton.Match) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
