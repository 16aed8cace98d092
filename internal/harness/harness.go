package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/motifsim/internal/automaton"
	"github.com/roach88/motifsim/internal/library"
	"github.com/roach88/motifsim/internal/testutil"
	"github.com/roach88/motifsim/internal/trace"
)

// BuildFunc constructs a fresh engine for a scenario.
type BuildFunc func() (automaton.Automaton, error)

// Harness is the scenario execution engine.
// It records runs with a deterministic clock and a pinned run ID.
type Harness struct {
	clock  *testutil.DeterministicClock
	runIDs *testutil.FixedRunIDGenerator
	logger *slog.Logger
}

// newHarness creates a harness whose traces are reproducible for runID.
func newHarness(runID string) *Harness {
	return &Harness{
		clock:  testutil.NewDeterministicClock(),
		runIDs: testutil.NewFixedRunIDGenerator(runID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
}

// record scans sequence with a and returns the trace and its fingerprint.
// The clock restarts so every recording numbers its events from 1.
func (h *Harness) record(ctx context.Context, a automaton.Automaton, sequence string) (*trace.Trace, string, error) {
	h.clock.Reset()
	rec := trace.NewRecorder(
		trace.WithClock(h.clock),
		trace.WithRunIDs(h.runIDs),
		trace.WithLogger(h.logger),
	)
	tr, err := rec.Record(ctx, a, sequence)
	if err != nil {
		return nil, "", err
	}
	fp, err := trace.Fingerprint(tr)
	if err != nil {
		return nil, "", err
	}
	return tr, fp, nil
}

// Run executes a scenario and returns the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext executes a scenario and returns the result.
//
// Execution flow:
// 1. Resolve the engine (factory or library motif)
// 2. Build it; a construction failure is recorded, not returned
// 3. Record the trace over the scenario sequence
// 4. Evaluate assertions
//
// The returned error covers infrastructure failures only: an unreadable
// library, a missing motif, or a cancelled context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	build, err := Resolve(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve automaton: %w", err)
	}

	h := newHarness(scenario.RunID)
	result := NewResult()

	a, err := build()
	if err != nil {
		result.ConstructionError = err.Error()
		h.logger.Info("construction failed", "scenario", scenario.Name, "error", err)
	} else {
		tr, fp, err := h.record(ctx, a, scenario.Sequence)
		if err != nil {
			return nil, fmt.Errorf("failed to record trace: %w", err)
		}
		result.Trace = tr
		result.Fingerprint = fp
	}

	actx := &AssertionContext{
		Ctx:      ctx,
		Sequence: scenario.Sequence,
		Build:    build,
		RunID:    scenario.RunID,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	if result.ConstructionError != "" && !expectsConstructionError(scenario.Assertions) {
		result.AddError("construction failed: " + result.ConstructionError)
	}
	return result, nil
}

// Resolve returns a BuildFunc for the scenario's engine. Library scenarios
// load the library and look up the motif; direct scenarios go through the
// factory on every call.
func Resolve(scenario *Scenario) (BuildFunc, error) {
	if scenario.Motif != "" {
		lib, errs := library.Load(scenario.Library, library.LoadModeCollectAll)
		if lib == nil {
			return nil, errs[0]
		}
		m, ok := lib.Lookup(scenario.Motif)
		if !ok {
			if len(errs) > 0 {
				return nil, fmt.Errorf("motif %q not available in %s: %w", scenario.Motif, scenario.Library, errs[0])
			}
			return nil, fmt.Errorf("motif %q not found in %s", scenario.Motif, scenario.Library)
		}
		return m.Build, nil
	}

	tag, pattern, minLength := scenario.Automaton, scenario.Pattern, scenario.MinLength
	return func() (automaton.Automaton, error) {
		kind, err := automaton.ParseKind(tag)
		if err != nil {
			return nil, err
		}
		var opts []automaton.Option
		if minLength > 0 {
			opts = append(opts, automaton.WithMinLength(minLength))
		}
		return automaton.New(kind, pattern, opts...)
	}, nil
}

func expectsConstructionError(assertions []Assertion) bool {
	return slices.ContainsFunc(assertions, func(a Assertion) bool {
		return a.Type == AssertConstructionError
	})
}
