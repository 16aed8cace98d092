package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/automaton"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	Engine EngineOptions
	DOT    bool
}

// StateInfo describes one state.
type StateInfo struct {
	State       int    `json:"state"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Initial     bool   `json:"initial,omitempty"`
	Accept      bool   `json:"accept,omitempty"`
}

// TransitionInfo is one edge of the transition relation.
type TransitionInfo struct {
	From      int    `json:"from"`
	Symbol    string `json:"symbol"`
	To        []int  `json:"to"`
	Important bool   `json:"important,omitempty"`
}

// DescribeResult is the static structure of an engine.
type DescribeResult struct {
	Kind        automaton.Kind   `json:"kind"`
	Pattern     string           `json:"pattern"`
	Symbols     []string         `json:"symbols"`
	States      []StateInfo      `json:"states"`
	Transitions []TransitionInfo `json:"transitions"`
	DOT         string           `json:"dot,omitempty"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show an engine's states and transitions",
		Long: `Describe the states and transition relation of an engine.

With --dot the transition graph is printed as Graphviz DOT source
instead, ready for dot -Tsvg or any other renderer.

Examples:
  motifsim describe --type DFA --pattern ATG
  motifsim describe --type gap --pattern "TA{1,2}GC" --dot | dot -Tsvg > gap.svg
  motifsim describe --library ./motifs --motif stop_codons --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "print Graphviz DOT source")

	return cmd
}

func runDescribe(opts *DescribeOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := buildEngine(&opts.Engine, f)
	if err != nil {
		return err
	}

	if opts.DOT && opts.Format != "json" {
		_, err := io.WriteString(f.Writer, exportDOT(a, a.InitialStates()))
		return err
	}

	result := describe(a)
	if opts.DOT {
		result.DOT = exportDOT(a, a.InitialStates())
	}
	return f.Render(result, func(w io.Writer) error {
		return writeDescribeText(w, result)
	})
}

// describe collects the static structure of a.
func describe(a automaton.Automaton) DescribeResult {
	initial, accept := a.InitialStates(), a.AcceptStates()
	important := importantSet(a)

	result := DescribeResult{
		Kind:    a.Kind(),
		Pattern: a.Pattern(),
	}
	for _, b := range a.Symbols() {
		result.Symbols = append(result.Symbols, automaton.SymbolLabel(b))
	}
	for _, s := range a.States() {
		result.States = append(result.States, StateInfo{
			State:       int(s),
			Label:       s.Label(),
			Description: a.StateDescription(s),
			Initial:     initial.Contains(s),
			Accept:      accept.Contains(s),
		})
	}

	trans := a.Transitions()
	result.Transitions = []TransitionInfo{}
	for _, e := range sortedEdges(trans) {
		result.Transitions = append(result.Transitions, TransitionInfo{
			From:      int(e.From),
			Symbol:    automaton.SymbolLabel(e.Symbol),
			To:        trans[e].Ints(),
			Important: important[e],
		})
	}
	return result
}

func writeDescribeText(w io.Writer, result DescribeResult) error {
	fmt.Fprintf(w, "%s %s\n\nStates:\n", result.Kind, result.Pattern)
	for _, s := range result.States {
		marker := "  "
		switch {
		case s.Initial && s.Accept:
			marker = "→*"
		case s.Initial:
			marker = "→ "
		case s.Accept:
			marker = " *"
		}
		fmt.Fprintf(w, "  %s %-4s %s\n", marker, s.Label, s.Description)
	}

	fmt.Fprintf(w, "\nTransitions (%d):\n", len(result.Transitions))
	for _, t := range result.Transitions {
		labels := make(automaton.StateSet, len(t.To))
		for i, n := range t.To {
			labels[i] = automaton.State(n)
		}
		note := ""
		if t.Important {
			note = "  (completes a match)"
		}
		fmt.Fprintf(w, "  %s --%s--> %s%s\n", automaton.State(t.From).Label(), t.Symbol, labels, note)
	}
	return nil
}
