package cli

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/motifsim/internal/alphabet"
	"github.com/roach88/motifsim/internal/automaton"
)

// importantEdger is implemented by engines that flag edges for emphasis.
type importantEdger interface {
	ImportantEdges() []automaton.Edge
}

// dotArc is every symbol carried between one ordered pair of states.
type dotArc struct {
	from, to  automaton.State
	symbols   []string
	important bool
}

// exportDOT renders the transition graph as Graphviz DOT source. Accept
// states are double circles; states in current are filled; edges the
// engine flags as important are drawn bold.
func exportDOT(a automaton.Automaton, current automaton.StateSet) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", string(a.Kind())+" "+a.Pattern())
	buf.WriteString(`  rankdir=LR;
  node [shape=circle, fontsize=10];
  edge [fontsize=9];
  start [shape=point];
`)

	accept := a.AcceptStates()
	for _, s := range a.States() {
		var attrs []string
		if accept.Contains(s) {
			attrs = append(attrs, "shape=doublecircle")
		}
		if current.Contains(s) {
			attrs = append(attrs, "style=filled", "fillcolor=lightgreen")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q [%s];\n", s.Label(), strings.Join(attrs, " "))
		} else {
			fmt.Fprintf(&buf, "  %q;\n", s.Label())
		}
	}

	for _, s := range a.InitialStates() {
		fmt.Fprintf(&buf, "  start -> %q;\n", s.Label())
	}
	for _, arc := range collectArcs(a) {
		style := ""
		if arc.important {
			style = " style=bold color=red"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q%s];\n",
			arc.from.Label(), arc.to.Label(), strings.Join(arc.symbols, ","), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// collectArcs merges parallel edges so each state pair gets one arrow.
func collectArcs(a automaton.Automaton) []dotArc {
	important := importantSet(a)
	trans := a.Transitions()

	type key struct{ from, to automaton.State }
	arcs := make(map[key]*dotArc)
	for _, e := range sortedEdges(trans) {
		for _, to := range trans[e] {
			k := key{e.From, to}
			arc, ok := arcs[k]
			if !ok {
				arc = &dotArc{from: e.From, to: to}
				arcs[k] = arc
			}
			arc.symbols = append(arc.symbols, automaton.SymbolLabel(e.Symbol))
			arc.important = arc.important || important[e]
		}
	}

	out := make([]dotArc, 0, len(arcs))
	for _, arc := range arcs {
		out = append(out, *arc)
	}
	slices.SortFunc(out, func(x, y dotArc) int {
		return cmp.Or(cmp.Compare(x.from, y.from), cmp.Compare(x.to, y.to))
	})
	return out
}

func importantSet(a automaton.Automaton) map[automaton.Edge]bool {
	out := make(map[automaton.Edge]bool)
	if ie, ok := a.(importantEdger); ok {
		for _, e := range ie.ImportantEdges() {
			out[e] = true
		}
	}
	return out
}

// sortedEdges orders edges by source state, then by base in alphabet
// order, with ε last.
func sortedEdges(t automaton.Transitions) []automaton.Edge {
	edges := make([]automaton.Edge, 0, len(t))
	for e := range t {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(x, y automaton.Edge) int {
		return cmp.Or(cmp.Compare(x.From, y.From), cmp.Compare(symbolRank(x.Symbol), symbolRank(y.Symbol)))
	})
	return edges
}

func symbolRank(b byte) int {
	if b == automaton.Epsilon {
		return alphabet.Size
	}
	return alphabet.Index(b)
}
