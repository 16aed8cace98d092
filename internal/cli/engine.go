package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/automaton"
	"github.com/roach88/motifsim/internal/library"
)

// EngineOptions selects the engine a command drives: either a variant and
// pattern, or a named motif from a CUE library.
type EngineOptions struct {
	Type      string
	Pattern   string
	MinLength int
	Library   string
	Motif     string
}

// addEngineFlags registers the engine selection flags on cmd.
func addEngineFlags(cmd *cobra.Command, o *EngineOptions) {
	cmd.Flags().StringVarP(&o.Type, "type", "t", "", "automaton type (DFA|NFA|ENFA|PDA or exact|alternation|gap|palindrome)")
	cmd.Flags().StringVarP(&o.Pattern, "pattern", "p", "", "construction pattern, e.g. ATG, TAA|TGA, TATA{1,10}TATA")
	cmd.Flags().IntVar(&o.MinLength, "min-length", 0, "minimum palindrome length (PDA only)")
	cmd.Flags().StringVar(&o.Library, "library", "", "CUE motif library directory")
	cmd.Flags().StringVar(&o.Motif, "motif", "", "motif name from --library")
}

// buildEngine resolves o into a fresh engine. Errors are reported through f
// and returned as *ExitError.
func buildEngine(o *EngineOptions, f *OutputFormatter) (automaton.Automaton, error) {
	switch {
	case o.Motif != "" && o.Type != "":
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlags, "--type and --motif are mutually exclusive", nil)
	case o.Motif != "" && o.Library == "":
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlags, "--motif requires --library", nil)
	case o.Motif != "" && (o.Pattern != "" || o.MinLength != 0):
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlags, "--pattern and --min-length come from the library when --motif is set", nil)
	case o.Motif == "" && o.Type == "":
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlags, "one of --type or --motif is required", nil)
	case o.MinLength < 0:
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlags, "--min-length must be non-negative", nil)
	}

	if o.Motif != "" {
		return buildFromLibrary(o, f)
	}

	kind, err := automaton.ParseKind(o.Type)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeConstruction, err.Error(), err)
	}
	var opts []automaton.Option
	if o.MinLength > 0 {
		opts = append(opts, automaton.WithMinLength(o.MinLength))
	}
	a, err := automaton.New(kind, o.Pattern, opts...)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeConstruction, err.Error(), err)
	}
	slog.Debug("engine built", "kind", a.Kind(), "pattern", a.Pattern(), "states", len(a.States()))
	return a, nil
}

func buildFromLibrary(o *EngineOptions, f *OutputFormatter) (automaton.Automaton, error) {
	lib, errs := library.Load(o.Library, library.LoadModeCollectAll)
	if lib == nil {
		var le *library.LoadError
		if errors.As(errs[0], &le) {
			return nil, f.Fail(ExitCommandError, le.Code, le.Message, nil)
		}
		return nil, f.Fail(ExitCommandError, library.ErrCodeGeneric, errs[0].Error(), errs[0])
	}
	for _, err := range errs {
		slog.Warn("library entry skipped", "error", err)
	}

	m, ok := lib.Lookup(o.Motif)
	if !ok {
		return nil, f.Fail(ExitCommandError, ErrCodeMotifNotFound,
			fmt.Sprintf("motif %q not found in %s", o.Motif, o.Library), nil)
	}
	a, err := m.Build()
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeConstruction, err.Error(), err)
	}
	slog.Debug("engine built from library", "motif", m.Name, "kind", a.Kind(), "pattern", a.Pattern())
	return a, nil
}
