package automaton

import (
	"fmt"

	"github.com/roach88/motifsim/internal/alphabet"
)

// Exact matches one literal with a linear chain of states: Q<i> means the
// first i bases of the pattern have been read.
//
// The chain has one state per pattern position. Reading the final base from
// the last state is the only accepting transition; it lands on the longest
// proper border of the pattern so overlapping occurrences are still found
// ("AAA" in "AAAA" matches at 0 and 1). For border-free patterns such as
// "ATG" every mismatch restarts at Q1 or Q0.
type Exact struct {
	pattern string
	next    [][alphabet.Size]State

	current State
	pos     int
}

// NewExact builds the chain for pattern. An empty pattern yields a single
// self-looping start state that never matches.
func NewExact(pattern string) *Exact {
	e := &Exact{pattern: alphabet.Normalize(pattern)}
	e.next = buildChain(e.pattern)
	return e
}

// buildChain computes the prefix-function automaton for p folded onto
// len(p) states.
func buildChain(p string) [][alphabet.Size]State {
	n := len(p)
	if n == 0 {
		return make([][alphabet.Size]State, 1)
	}

	border := make([]int, n)
	for i, k := 1, 0; i < n; i++ {
		for k > 0 && p[i] != p[k] {
			k = border[k-1]
		}
		if p[i] == p[k] {
			k++
		}
		border[i] = k
	}

	next := make([][alphabet.Size]State, n)
	for i := 0; i < n; i++ {
		for c, b := range alphabet.Bases {
			switch {
			case b == p[i] && i == n-1:
				next[i][c] = State(border[n-1])
			case b == p[i]:
				next[i][c] = State(i + 1)
			case i == 0:
				next[i][c] = 0
			default:
				next[i][c] = next[border[i-1]][c]
			}
		}
	}
	return next
}

func (e *Exact) sealed() {}

// Kind returns KindExact.
func (e *Exact) Kind() Kind { return KindExact }

// Pattern returns the normalized literal.
func (e *Exact) Pattern() string { return e.pattern }

// States returns Q0..Q(n-1).
func (e *Exact) States() []State { return stateRange(len(e.next)) }

// InitialStates returns {Q0}.
func (e *Exact) InitialStates() StateSet { return StateSet{0} }

// AcceptStates returns {Q0}: a completed match lands back at the start of
// the chain.
func (e *Exact) AcceptStates() StateSet { return StateSet{0} }

// CurrentStates returns the singleton live state.
func (e *Exact) CurrentStates() StateSet { return StateSet{e.current} }

// Symbols returns the alphabet.
func (e *Exact) Symbols() []byte { return symbols() }

// Transitions returns the chain with singleton target sets.
func (e *Exact) Transitions() Transitions {
	out := make(Transitions, len(e.next)*alphabet.Size)
	for s, row := range e.next {
		for c, dst := range row {
			out[Edge{From: State(s), Symbol: alphabet.Bases[c]}] = StateSet{dst}
		}
	}
	return out
}

// ImportantEdges returns the match-completing edge, the one renderers
// emphasize.
func (e *Exact) ImportantEdges() []Edge {
	n := len(e.pattern)
	if n == 0 {
		return nil
	}
	return []Edge{{From: State(n - 1), Symbol: e.pattern[n-1]}}
}

// Reset returns to Q0 at cursor 0.
func (e *Exact) Reset() {
	e.current = 0
	e.pos = 0
}

// Step advances the chain by one base.
func (e *Exact) Step(symbol byte) StepResult {
	symbol = alphabet.Upper(symbol)
	old := e.current
	pos := e.pos
	e.pos++

	col := alphabet.Index(symbol)
	if col < 0 {
		e.current = 0
		return StepResult{
			States:      StateSet{0},
			Description: narrate(symbol, StateSet{old}, StateSet{0}, foreignNote(symbol)),
		}
	}

	n := len(e.pattern)
	e.current = e.next[old][col]
	matched := n > 0 && int(old) == n-1 && symbol == e.pattern[n-1]

	var note string
	switch {
	case matched:
		note = " [PATTERN MATCHED!]"
	case e.current > old:
		note = fmt.Sprintf(" (Matched %d/%d)", e.current, n)
	case e.current == 0 && old != 0:
		note = " (Reset/backtrack to start)"
	case e.current < old:
		note = fmt.Sprintf(" (Backtrack to %s)", e.current.Label())
	}

	res := StepResult{
		States:      StateSet{e.current},
		Accepted:    matched,
		Description: narrate(symbol, StateSet{old}, StateSet{e.current}, note),
	}
	if matched {
		res.Matches = []Match{{Start: pos - n + 1, End: pos}}
	}
	return res
}

// FindAllMatches reports every occurrence of the pattern, overlaps included.
func (e *Exact) FindAllMatches(sequence string) []Match {
	return scan(e, sequence)
}

// StateDescription explains a chain position.
func (e *Exact) StateDescription(s State) string {
	switch {
	case s == 0:
		return "Start State: Looking for pattern start (also accept)"
	case int(s) < len(e.pattern):
		return fmt.Sprintf("Partial Match: '%s' (need '%s')", e.pattern[:s], e.pattern[s:])
	default:
		return fmt.Sprintf("Unknown state %s", s.Label())
	}
}
