package automaton

import (
	"fmt"

	"github.com/roach88/motifsim/internal/alphabet"
)

const (
	// DefaultMinLength is the shortest palindrome reported unless configured.
	DefaultMinLength = 4

	// MinLengthFloor is the smallest accepted minimum length.
	MinLengthFloor = 2

	// StackDepth is how many bases the narration stack holds before it
	// starts sliding.
	StackDepth = 8

	// DefaultPalindromeLabel stands in for the pattern of a palindrome
	// finder; matching never reads it.
	DefaultPalindromeLabel = "PALINDROME"
)

// Control states of the narration stack.
const (
	statePush State = 0
	statePop  State = 1
)

// Palindrome finds reverse-complement palindromes such as GAATTC, the
// hairpin-forming runs read identically on both strands.
//
// Step only animates a bounded stack: each base is pushed, and once the
// stack is deeper than StackDepth the oldest base is discarded. It never
// signals a match. FindAllMatches is the actual finder: it expands around
// every center between two adjacent bases while the outer pair is
// complementary.
type Palindrome struct {
	label  string
	minLen int

	stack []byte
	mode  State
}

// NewPalindrome creates a finder reporting windows of at least minLen bases.
// A zero minLen selects DefaultMinLength; anything below MinLengthFloor is
// raised to it. An empty label becomes DefaultPalindromeLabel.
func NewPalindrome(label string, minLen int) *Palindrome {
	if label == "" {
		label = DefaultPalindromeLabel
	}
	if minLen == 0 {
		minLen = DefaultMinLength
	}
	return &Palindrome{
		label:  label,
		minLen: max(MinLengthFloor, minLen),
		stack:  make([]byte, 0, StackDepth+1),
	}
}

func (p *Palindrome) sealed() {}

// Kind returns KindPalindrome.
func (p *Palindrome) Kind() Kind { return KindPalindrome }

// Pattern returns the display label.
func (p *Palindrome) Pattern() string { return p.label }

// MinLength returns the shortest reported window length.
func (p *Palindrome) MinLength() int { return p.minLen }

func (p *Palindrome) States() []State         { return []State{statePush, statePop} }
func (p *Palindrome) InitialStates() StateSet { return StateSet{statePush} }
func (p *Palindrome) AcceptStates() StateSet  { return StateSet{} }
func (p *Palindrome) CurrentStates() StateSet { return StateSet{p.mode} }
func (p *Palindrome) Symbols() []byte         { return symbols() }

// Transitions describes the stack rhythm: push mode either keeps pushing or
// starts sliding; pop mode keeps sliding.
func (p *Palindrome) Transitions() Transitions {
	out := make(Transitions, 2*alphabet.Size)
	for _, b := range alphabet.Bases {
		out[Edge{From: statePush, Symbol: b}] = StateSet{statePush, statePop}
		out[Edge{From: statePop, Symbol: b}] = StateSet{statePop}
	}
	return out
}

// Stack returns a copy of the narration stack, oldest base first.
func (p *Palindrome) Stack() []byte {
	out := make([]byte, len(p.stack))
	copy(out, p.stack)
	return out
}

// Mode returns "push" or "pop".
func (p *Palindrome) Mode() string {
	if p.mode == statePop {
		return "pop"
	}
	return "push"
}

// Reset empties the stack and returns to push mode.
func (p *Palindrome) Reset() {
	p.stack = p.stack[:0]
	p.mode = statePush
}

// Step pushes one base onto the narration stack. Foreign symbols are ignored.
func (p *Palindrome) Step(symbol byte) StepResult {
	symbol = alphabet.Upper(symbol)
	old := p.mode

	if !alphabet.Contains(symbol) {
		return StepResult{
			States:      StateSet{old},
			Description: narrate(symbol, StateSet{old}, StateSet{old}, fmt.Sprintf(" ('%c' not in alphabet: ignored)", symbol)),
		}
	}

	before := stackLabel(p.stack)
	p.stack = append(p.stack, symbol)
	action := "PUSH"
	if len(p.stack) > StackDepth {
		p.mode = statePop
		p.stack = append(p.stack[:0], p.stack[1:]...)
		action = "SHIFT"
	} else {
		p.mode = statePush
	}

	note := fmt.Sprintf(" [%s] stack=%s→%s", action, before, stackLabel(p.stack))
	return StepResult{
		States:      StateSet{p.mode},
		Description: narrate(symbol, StateSet{old}, StateSet{p.mode}, note),
	}
}

func stackLabel(stack []byte) string {
	if len(stack) == 0 {
		return "ε"
	}
	return string(stack)
}

// FindAllMatches returns the maximal reverse-complement window around every
// even center whose length reaches the minimum.
//
// Only centers between two bases are tried: no base is its own complement,
// so a perfect reverse-complement palindrome always has even length. Worst
// case is quadratic in the sequence length.
func (p *Palindrome) FindAllMatches(sequence string) []Match {
	p.Reset()
	defer p.Reset()

	s := alphabet.Normalize(sequence)
	n := len(s)
	var out []Match
	for i := 0; i+1 < n; i++ {
		l, r := i, i+1
		for l >= 0 && r < n && pairs(s[l], s[r]) {
			l--
			r++
		}
		if m := (Match{Start: l + 1, End: r - 1}); m.Len() >= p.minLen {
			out = append(out, m)
		}
	}
	return sortMatches(out)
}

func pairs(x, y byte) bool {
	c := alphabet.Complement(x)
	return c != 0 && c == y
}

// StateDescription explains the two control states.
func (p *Palindrome) StateDescription(s State) string {
	switch s {
	case statePush:
		return fmt.Sprintf("Scanning: pushing bases onto the stack (depth up to %d)", StackDepth)
	case statePop:
		return "Stack Sliding: oldest base discarded on every push"
	default:
		return fmt.Sprintf("Unknown state %s", s.Label())
	}
}
