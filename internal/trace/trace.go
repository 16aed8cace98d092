// Package trace records step-by-step simulations of an automaton.
//
// A Trace is the narrated history a viewer replays: one Event per consumed
// symbol with the configuration before and after it, plus every window the
// engine reports over the whole sequence. Traces serialize to canonical JSON
// and carry a content fingerprint, so two recordings of the same engine over
// the same input can be compared byte for byte.
package trace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/motifsim/internal/alphabet"
	"github.com/roach88/motifsim/internal/automaton"
)

// cancelCheckInterval is how many steps run between context checks.
const cancelCheckInterval = 4096

// Event is one consumed symbol.
type Event struct {
	Seq         int64              `json:"seq"`
	Index       int                `json:"index"`
	Symbol      string             `json:"symbol"`
	From        automaton.StateSet `json:"from"`
	To          automaton.StateSet `json:"to"`
	Accepted    bool               `json:"accepted"`
	Description string             `json:"description"`
	Matches     []automaton.Match  `json:"matches"`

	// Stack is the narration stack after the step, set only for engines
	// that keep one.
	Stack *string `json:"stack,omitempty"`
}

// Trace is a complete recorded run.
type Trace struct {
	RunID    string             `json:"run_id"`
	Kind     automaton.Kind     `json:"kind"`
	Pattern  string             `json:"pattern"`
	Sequence string             `json:"sequence"`
	Events   []Event            `json:"events"`
	Final    automaton.StateSet `json:"final"`
	Matches  []automaton.Match  `json:"matches"`
}

// stacker is implemented by engines with a narration stack.
type stacker interface {
	Stack() []byte
}

// Recorder drives an engine over a sequence and captures every step.
type Recorder struct {
	runIDs RunIDGenerator
	clock  Sequencer
	logger *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithRunIDs sets the run ID source. Defaults to UUIDv7Generator.
func WithRunIDs(g RunIDGenerator) Option {
	return func(r *Recorder) {
		r.runIDs = g
	}
}

// WithClock sets the sequence source for events. Defaults to a fresh Clock
// per recorder.
func WithClock(c Sequencer) Option {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// NewRecorder creates a recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		runIDs: UUIDv7Generator{},
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record resets a, steps it through sequence and returns the trace. The
// engine is left reset.
//
// Matches is the engine's FindAllMatches result for the whole sequence. For
// the finite-state engines it equals the union of the per-step matches; the
// palindrome finder reports windows only through it.
//
// Record returns ctx.Err() if the context is cancelled mid-sequence.
func (r *Recorder) Record(ctx context.Context, a automaton.Automaton, sequence string) (*Trace, error) {
	t := &Trace{
		RunID:    r.runIDs.Generate(),
		Kind:     a.Kind(),
		Pattern:  a.Pattern(),
		Sequence: sequence,
		Events:   make([]Event, 0, len(sequence)),
	}

	r.logger.Debug("recording trace",
		"run_id", t.RunID,
		"kind", t.Kind,
		"pattern", t.Pattern,
		"length", len(sequence),
	)

	st, hasStack := a.(stacker)

	a.Reset()
	for i := 0; i < len(sequence); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				a.Reset()
				return nil, fmt.Errorf("recording stopped at index %d: %w", i, err)
			}
		}

		from := a.CurrentStates()
		res := a.Step(sequence[i])

		ev := Event{
			Seq:         r.clock.Next(),
			Index:       i,
			Symbol:      string(rune(alphabet.Upper(sequence[i]))),
			From:        from,
			To:          res.States,
			Accepted:    res.Accepted,
			Description: res.Description,
			Matches:     res.Matches,
		}
		if ev.Matches == nil {
			ev.Matches = []automaton.Match{}
		}
		if hasStack {
			s := string(st.Stack())
			ev.Stack = &s
		}
		t.Events = append(t.Events, ev)
	}
	t.Final = a.CurrentStates()
	t.Matches = a.FindAllMatches(sequence)

	r.logger.Debug("trace recorded",
		"run_id", t.RunID,
		"steps", len(t.Events),
		"matches", len(t.Matches),
	)
	return t, nil
}

// Canonical returns the canonical JSON form of the trace.
func (t *Trace) Canonical() ([]byte, error) {
	return MarshalCanonical(t.value(true))
}

// CanonicalMap returns the map form of the trace that Canonical encodes,
// for embedding in larger canonical documents.
func (t *Trace) CanonicalMap() map[string]any {
	return t.value(true)
}

// AcceptedSteps returns the indices of events that completed a match.
func (t *Trace) AcceptedSteps() []int {
	var out []int
	for _, ev := range t.Events {
		if ev.Accepted {
			out = append(out, ev.Index)
		}
	}
	return out
}

// value converts the trace to the map form MarshalCanonical accepts. Run ID
// and sequence numbers are left out when identity is false.
func (t *Trace) value(identity bool) map[string]any {
	events := make([]any, len(t.Events))
	for i, ev := range t.Events {
		m := map[string]any{
			"index":       ev.Index,
			"symbol":      ev.Symbol,
			"from":        statesValue(ev.From),
			"to":          statesValue(ev.To),
			"accepted":    ev.Accepted,
			"description": ev.Description,
			"matches":     matchesValue(ev.Matches),
		}
		if identity {
			m["seq"] = ev.Seq
		}
		if ev.Stack != nil {
			m["stack"] = *ev.Stack
		}
		events[i] = m
	}

	out := map[string]any{
		"kind":     string(t.Kind),
		"pattern":  t.Pattern,
		"sequence": t.Sequence,
		"events":   events,
		"final":    statesValue(t.Final),
		"matches":  matchesValue(t.Matches),
	}
	if identity {
		out["run_id"] = t.RunID
	}
	return out
}

func statesValue(ss automaton.StateSet) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = int(s)
	}
	return out
}

func matchesValue(ms []automaton.Match) []any {
	out := make([]any, len(ms))
	for i, m := range ms {
		out[i] = map[string]any{"start": m.Start, "end": m.End}
	}
	return out
}
