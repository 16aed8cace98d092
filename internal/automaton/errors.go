package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind is matched by every *UnsupportedKindError.
	ErrUnsupportedKind = errors.New("unsupported automaton type")

	// ErrInvalidPattern is matched by every *PatternError.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// UnsupportedKindError reports a construction request for an unknown
// variant tag.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported automaton type: %s", e.Kind)
}

// Is makes errors.Is(err, ErrUnsupportedKind) hold.
func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

// PatternError reports a pattern the requested engine cannot be built from.
type PatternError struct {
	Kind    Kind
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: invalid pattern %q: %s", e.Kind, e.Pattern, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidPattern) hold.
func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// IsUnsupportedKind returns true if err is or wraps an unsupported variant
// error.
func IsUnsupportedKind(err error) bool {
	return errors.Is(err, ErrUnsupportedKind)
}

// IsInvalidPattern returns true if err is or wraps a pattern error.
func IsInvalidPattern(err error) bool {
	return errors.Is(err, ErrInvalidPattern)
}
