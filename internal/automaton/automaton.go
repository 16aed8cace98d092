package automaton

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/motifsim/internal/alphabet"
)

// Kind tags an engine variant. Renderers switch on it; it has no behavioral
// effect inside the engines.
type Kind string

const (
	// KindExact is the linear-chain exact literal matcher.
	KindExact Kind = "DFA"

	// KindAlternation recognizes any of a set of literal alternatives.
	KindAlternation Kind = "NFA"

	// KindGap recognizes two literals separated by a bounded spacer.
	KindGap Kind = "ENFA"

	// KindPalindrome finds reverse-complement palindromes.
	KindPalindrome Kind = "PDA"
)

func (k Kind) String() string {
	return string(k)
}

// State identifies one automaton state. Identifiers are dense from 0 and
// fixed at construction.
type State int

// Label returns the display label, e.g. "Q3".
func (s State) Label() string {
	return "Q" + strconv.Itoa(int(s))
}

// StateSet is a sorted, duplicate-free set of states.
type StateSet []State

// NewStateSet builds a StateSet from states in any order.
func NewStateSet(states ...State) StateSet {
	out := make(StateSet, len(states))
	copy(out, states)
	slices.Sort(out)
	return slices.Compact(out)
}

// Contains reports whether s is a member.
func (ss StateSet) Contains(s State) bool {
	_, ok := slices.BinarySearch(ss, s)
	return ok
}

// Equal reports whether both sets hold the same states.
func (ss StateSet) Equal(other StateSet) bool {
	return slices.Equal(ss, other)
}

// Ints returns the states as plain integers.
func (ss StateSet) Ints() []int {
	out := make([]int, len(ss))
	for i, s := range ss {
		out[i] = int(s)
	}
	return out
}

// String renders "Q3" for a singleton, "{Q0, Q3}" for larger sets and "∅"
// for the empty set.
func (ss StateSet) String() string {
	switch len(ss) {
	case 0:
		return "∅"
	case 1:
		return ss[0].Label()
	}
	labels := make([]string, len(ss))
	for i, s := range ss {
		labels[i] = s.Label()
	}
	return "{" + strings.Join(labels, ", ") + "}"
}

// Epsilon is the symbol carried by non-consuming edges.
const Epsilon byte = 0

// SymbolLabel renders a transition symbol; Epsilon prints as "ε".
func SymbolLabel(b byte) string {
	if b == Epsilon {
		return "ε"
	}
	return string(rune(b))
}

// Edge is the source half of a transition: a state and the symbol read.
type Edge struct {
	From   State
	Symbol byte
}

// Transitions is the full relation in nondeterministic form. Deterministic
// engines report singleton target sets.
type Transitions map[Edge]StateSet

// Match is an inclusive, 0-based window into a scanned sequence.
type Match struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bases covered by the window.
func (m Match) Len() int {
	return m.End - m.Start + 1
}

func (m Match) String() string {
	return fmt.Sprintf("%d-%d", m.Start, m.End)
}

// StepResult is the outcome of consuming one symbol.
type StepResult struct {
	// States is the configuration after the step.
	States StateSet

	// Accepted is true when the step completed at least one match.
	Accepted bool

	// Description narrates the transition:
	//	Read '<symbol>': <from> → <to>[ annotation]
	Description string

	// Matches lists the windows completed by this step.
	Matches []Match
}

// Automaton is the simulation contract shared by every engine.
//
// Engines are not safe for concurrent use: Step and FindAllMatches mutate the
// same configuration. Drive one instance from one caller at a time.
type Automaton interface {
	Kind() Kind

	// Pattern returns the normalized construction pattern.
	Pattern() string

	States() []State
	InitialStates() StateSet
	AcceptStates() StateSet
	CurrentStates() StateSet
	Transitions() Transitions
	Symbols() []byte

	// Reset returns the configuration to its initial value.
	Reset()

	// Step consumes one symbol. Symbols outside the alphabet never panic and
	// never signal a match.
	Step(symbol byte) StepResult

	// FindAllMatches resets, scans sequence once, resets again and returns
	// every window sorted by (start, end).
	FindAllMatches(sequence string) []Match

	// StateDescription explains what reaching s means biologically.
	StateDescription(s State) string

	sealed()
}

// table is an immutable transition relation indexed by state and base column.
type table [][alphabet.Size]StateSet

func newTable(states int) table {
	return make(table, states)
}

func (t table) add(from State, symbol byte, to State) {
	col := alphabet.Index(symbol)
	if col < 0 {
		return
	}
	t[from][col] = append(t[from][col], to)
}

// freeze sorts and deduplicates every target set.
func (t table) freeze() {
	for s := range t {
		for c := range t[s] {
			if len(t[s][c]) > 0 {
				t[s][c] = NewStateSet(t[s][c]...)
			}
		}
	}
}

func (t table) export(epsilon map[State]StateSet) Transitions {
	out := make(Transitions)
	for s, row := range t {
		for c, dst := range row {
			if len(dst) == 0 {
				continue
			}
			out[Edge{From: State(s), Symbol: alphabet.Bases[c]}] = slices.Clone(dst)
		}
	}
	for s, dst := range epsilon {
		out[Edge{From: s, Symbol: Epsilon}] = slices.Clone(dst)
	}
	return out
}

func stateRange(n int) []State {
	out := make([]State, n)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

func symbols() []byte {
	return slices.Clone(alphabet.Bases)
}

func narrate(symbol byte, from, to StateSet, note string) string {
	return fmt.Sprintf("Read '%c': %s → %s%s", symbol, from, to, note)
}

func foreignNote(symbol byte) string {
	return fmt.Sprintf(" ('%c' not in alphabet: reset to start)", symbol)
}

// scan drives a step-reporting engine over sequence and gathers the windows
// each step completes.
func scan(a Automaton, sequence string) []Match {
	a.Reset()
	defer a.Reset()

	var out []Match
	for i := 0; i < len(sequence); i++ {
		out = append(out, a.Step(sequence[i]).Matches...)
	}
	return sortMatches(out)
}

func sortMatches(ms []Match) []Match {
	if len(ms) == 0 {
		return []Match{}
	}
	slices.SortFunc(ms, func(a, b Match) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	return slices.Compact(ms)
}
