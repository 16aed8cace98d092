package automaton

import (
	"strconv"
	"strings"
)

// KindInfo pairs a variant with the label menus show for it.
type KindInfo struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

// Available lists every supported variant in menu order.
func Available() []KindInfo {
	return []KindInfo{
		{Kind: KindExact, Label: "DFA – Exact literal matching"},
		{Kind: KindAlternation, Label: "NFA – Alternatives (ATG|TAA|TGA)"},
		{Kind: KindGap, Label: "ε-NFA – Spacer ranges (TATA{1,10}TATA)"},
		{Kind: KindPalindrome, Label: "PDA – Complement palindromes (hairpins)"},
	}
}

// ParseKind resolves a variant tag. It accepts the tags themselves and the
// aliases exact, alternation, gap and palindrome, in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DFA", "EXACT":
		return KindExact, nil
	case "NFA", "ALTERNATION":
		return KindAlternation, nil
	case "ENFA", "E-NFA", "GAP":
		return KindGap, nil
	case "PDA", "PALINDROME":
		return KindPalindrome, nil
	default:
		return "", &UnsupportedKindError{Kind: s}
	}
}

// Option tunes construction.
type Option func(*options)

type options struct {
	minLength int
}

// WithMinLength sets the palindrome finder's minimum window length. Other
// variants ignore it.
func WithMinLength(n int) Option {
	return func(o *options) {
		o.minLength = n
	}
}

// New constructs the engine for kind from pattern.
//
// Pattern shapes:
//
//	KindExact        "ATG"
//	KindAlternation  "ATG|TAA|TGA"
//	KindGap          "TATA{1,10}TATA"
//	KindPalindrome   label or minimum length ("6"); empty selects defaults
//
// An unknown kind fails with *UnsupportedKindError; no engine is returned on
// error.
func New(kind Kind, pattern string, opts ...Option) (Automaton, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case KindExact:
		return NewExact(pattern), nil
	case KindAlternation:
		return NewAlternation(pattern), nil
	case KindGap:
		g, err := NewGap(pattern)
		if err != nil {
			return nil, err
		}
		return g, nil
	case KindPalindrome:
		label := strings.TrimSpace(pattern)
		minLen := o.minLength
		if n, err := strconv.Atoi(label); err == nil {
			label = DefaultPalindromeLabel
			if minLen == 0 {
				minLen = n
			}
		}
		return NewPalindrome(label, minLen), nil
	default:
		return nil, &UnsupportedKindError{Kind: string(kind)}
	}
}
