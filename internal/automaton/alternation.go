package automaton

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/motifsim/internal/alphabet"
)

// Alternation recognizes any of a fixed set of literal alternatives, e.g.
// the stop codons "TAA|TAG|TGA".
//
// Q0 is shared by every alternative and loops on every base, so a new
// attempt can start at any position. Each alternative owns a private chain
// whose last state is accepting and has no outgoing edges: a branch that
// completes emits a match and dies, and Q0 restarts it.
type Alternation struct {
	pattern      string
	alternatives []string
	delta        table
	alt          []int // owning alternative per state, -1 for Q0
	depth        []int // bases matched per state
	accept       StateSet

	current StateSet
	pos     int
}

// NewAlternation parses a "|"-separated list of literals. Blank and repeated
// alternatives are dropped.
func NewAlternation(pattern string) *Alternation {
	a := &Alternation{alternatives: splitAlternatives(pattern)}
	a.pattern = strings.Join(a.alternatives, "|")

	total := 1
	for _, w := range a.alternatives {
		total += len(w)
	}
	a.delta = newTable(total)
	a.alt = make([]int, total)
	a.depth = make([]int, total)
	a.alt[0] = -1

	for _, b := range alphabet.Bases {
		a.delta.add(0, b, 0)
	}

	next := State(1)
	var accept []State
	for k, w := range a.alternatives {
		prev := State(0)
		for j := 0; j < len(w); j++ {
			a.alt[next] = k
			a.depth[next] = j + 1
			a.delta.add(prev, w[j], next)
			prev = next
			next++
		}
		accept = append(accept, prev)
	}
	a.delta.freeze()
	a.accept = NewStateSet(accept...)
	a.Reset()
	return a
}

func splitAlternatives(pattern string) []string {
	var out []string
	for _, part := range strings.Split(pattern, "|") {
		w := alphabet.Normalize(strings.TrimSpace(part))
		if w == "" || slices.Contains(out, w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (a *Alternation) sealed() {}

// Kind returns KindAlternation.
func (a *Alternation) Kind() Kind { return KindAlternation }

// Pattern returns the normalized alternatives joined by "|".
func (a *Alternation) Pattern() string { return a.pattern }

// Alternatives returns the parsed literals in declaration order.
func (a *Alternation) Alternatives() []string { return slices.Clone(a.alternatives) }

func (a *Alternation) States() []State         { return stateRange(len(a.delta)) }
func (a *Alternation) InitialStates() StateSet { return StateSet{0} }
func (a *Alternation) AcceptStates() StateSet  { return slices.Clone(a.accept) }
func (a *Alternation) CurrentStates() StateSet { return slices.Clone(a.current) }
func (a *Alternation) Symbols() []byte         { return symbols() }
func (a *Alternation) Transitions() Transitions {
	return a.delta.export(nil)
}

// Reset activates Q0 alone at cursor 0.
func (a *Alternation) Reset() {
	a.current = StateSet{0}
	a.pos = 0
}

// Step advances every active branch by one base.
func (a *Alternation) Step(symbol byte) StepResult {
	symbol = alphabet.Upper(symbol)
	old := a.current
	pos := a.pos
	a.pos++

	col := alphabet.Index(symbol)
	if col < 0 {
		a.current = StateSet{0}
		return StepResult{
			States:      StateSet{0},
			Description: narrate(symbol, old, a.current, foreignNote(symbol)),
		}
	}

	next := []State{0}
	for _, s := range old {
		next = append(next, a.delta[s][col]...)
	}
	a.current = NewStateSet(next...)

	var (
		matches []Match
		names   []string
	)
	for _, s := range a.current {
		if !a.accept.Contains(s) {
			continue
		}
		w := a.alternatives[a.alt[s]]
		matches = append(matches, Match{Start: pos - len(w) + 1, End: pos})
		names = append(names, "'"+w+"'")
	}

	var note string
	switch {
	case len(matches) > 0:
		note = " [MATCHED " + strings.Join(names, ", ") + "]"
	case len(a.current) > 1:
		note = fmt.Sprintf(" (%d active branches)", len(a.current)-1)
	case len(old) > 1:
		note = " (Reset to start)"
	}

	return StepResult{
		States:      slices.Clone(a.current),
		Accepted:    len(matches) > 0,
		Description: narrate(symbol, old, a.current, note),
		Matches:     matches,
	}
}

// FindAllMatches reports every occurrence of every alternative; matches of
// different alternatives may overlap.
func (a *Alternation) FindAllMatches(sequence string) []Match {
	return scan(a, sequence)
}

// StateDescription explains a branch position.
func (a *Alternation) StateDescription(s State) string {
	if s < 0 || int(s) >= len(a.delta) {
		return fmt.Sprintf("Unknown state %s", s.Label())
	}
	if s == 0 {
		if len(a.alternatives) == 0 {
			return "Start State: no alternatives to match"
		}
		return "Start State: scanning for any of " + strings.Join(a.alternatives, ", ")
	}

	w := a.alternatives[a.alt[s]]
	d := a.depth[s]
	if a.accept.Contains(s) {
		return fmt.Sprintf("Accept: alternative '%s' matched", w)
	}
	return fmt.Sprintf("Partial Match: '%s' of alternative '%s' (need '%s')", w[:d], w, w[d:])
}
