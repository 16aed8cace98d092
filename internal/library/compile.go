package library

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/motifsim/internal/automaton"
)

// CompileMotif converts one CUE motif struct into a Motif and checks that
// its engine can be built.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`motif: atg: { automaton: "DFA", pattern: "ATG" }`)
//	m, err := CompileMotif("atg", v.LookupPath(cue.ParsePath("motif.atg")))
func CompileMotif(name string, v cue.Value) (*Motif, error) {
	if err := v.Err(); err != nil {
		return nil, wrapCUEError(ErrCodeBuildFailed, err)
	}

	m := &Motif{Name: name, Pos: v.Pos()}

	kindVal := v.LookupPath(cue.ParsePath("automaton"))
	if !kindVal.Exists() {
		return nil, &LoadError{
			Code:    ErrCodeMissingAutomaton,
			Message: fmt.Sprintf("motif %s: automaton is required", name),
			Pos:     v.Pos(),
		}
	}
	tag, err := kindVal.String()
	if err != nil {
		return nil, wrapCUEError(ErrCodeInvalidType, err)
	}
	if m.Kind, err = automaton.ParseKind(tag); err != nil {
		return nil, &LoadError{
			Code:    ErrCodeUnsupportedKind,
			Message: fmt.Sprintf("motif %s: %v", name, err),
			Pos:     kindVal.Pos(),
		}
	}

	if m.Pattern, err = optionalString(v, "pattern"); err != nil {
		return nil, err
	}
	if m.Pattern == "" && m.Kind != automaton.KindPalindrome {
		return nil, &LoadError{
			Code:    ErrCodeMissingPattern,
			Message: fmt.Sprintf("motif %s: pattern is required for %s", name, m.Kind),
			Pos:     v.Pos(),
		}
	}
	if m.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if m.Scenario, err = optionalString(v, "scenario"); err != nil {
		return nil, err
	}

	if minVal := v.LookupPath(cue.ParsePath("min_length")); minVal.Exists() {
		n, err := minVal.Int64()
		if err != nil {
			return nil, wrapCUEError(ErrCodeInvalidType, err)
		}
		if n < 0 {
			return nil, &LoadError{
				Code:    ErrCodeInvalidType,
				Message: fmt.Sprintf("motif %s: min_length must be non-negative", name),
				Pos:     minVal.Pos(),
			}
		}
		m.MinLength = int(n)
	}

	if _, err := m.Build(); err != nil {
		return nil, &LoadError{
			Code:    ErrCodeInvalidPattern,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return m, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", wrapCUEError(ErrCodeInvalidType, err)
	}
	return s, nil
}

// wrapCUEError keeps the first CUE error and its position.
func wrapCUEError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
