package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motifsim/internal/alphabet"
)

func isReverseComplement(s string) bool {
	for i, j := 0, len(s)-1; i < len(s); i, j = i+1, j-1 {
		c := alphabet.Complement(s[i])
		if c == 0 || c != s[j] {
			return false
		}
	}
	return true
}

// maximalPalindromes enumerates every even reverse-complement window that
// cannot be widened by one base on each side.
func maximalPalindromes(s string, minLen int) []Match {
	var out []Match
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j += 2 {
			if j-i+1 < minLen || !isReverseComplement(s[i:j+1]) {
				continue
			}
			if i > 0 && j+1 < len(s) && pairs(s[i-1], s[j+1]) {
				continue
			}
			out = append(out, Match{Start: i, End: j})
		}
	}
	return sortMatches(out)
}

func TestPalindrome_FindAllMatches(t *testing.T) {
	tests := []struct {
		name     string
		minLen   int
		sequence string
		want     []Match
	}{
		{"GATC site", 4, "GATC", []Match{{0, 3}}},
		{"EcoRI site reported once", 4, "GAATTC", []Match{{0, 5}}},
		{"EcoRI with low minimum", 2, "GAATTC", []Match{{0, 5}}},
		{"shortest pair", 2, "AT", []Match{{0, 1}}},
		{"below minimum", 6, "GATC", []Match{}},
		{"foreign symbol unpaired", 4, "GANTC", []Match{}},
		{"lowercase", 4, "gaattc", []Match{{0, 5}}},
		{"two sites", 4, "GATCCGATC", []Match{{0, 3}, {5, 8}}},
		{"empty", 4, "", []Match{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPalindrome("", tt.minLen)
			assert.Equal(t, tt.want, p.FindAllMatches(tt.sequence))
		})
	}
}

func TestPalindrome_MatchesBruteForce(t *testing.T) {
	r := alphabet.NewSource(7)

	for _, minLen := range []int{2, 4, 6} {
		p := NewPalindrome("", minLen)
		for round := 0; round < 30; round++ {
			seq := alphabet.RandomSequence(r, 120)
			got := p.FindAllMatches(seq)
			require.Equal(t, maximalPalindromes(seq, minLen), got, "min %d in %s", minLen, seq)

			for _, m := range got {
				assert.GreaterOrEqual(t, m.Len(), minLen)
				assert.True(t, isReverseComplement(seq[m.Start:m.End+1]), "window %s of %s", m, seq)
			}
		}
	}
}

func TestPalindrome_MinLength(t *testing.T) {
	assert.Equal(t, DefaultMinLength, NewPalindrome("", 0).MinLength())
	assert.Equal(t, MinLengthFloor, NewPalindrome("", 1).MinLength())
	assert.Equal(t, MinLengthFloor, NewPalindrome("", -3).MinLength())
	assert.Equal(t, 10, NewPalindrome("", 10).MinLength())
}

func TestPalindrome_Label(t *testing.T) {
	assert.Equal(t, DefaultPalindromeLabel, NewPalindrome("", 4).Pattern())
	assert.Equal(t, "hairpin", NewPalindrome("hairpin", 4).Pattern())
}

func TestPalindrome_StackNarration(t *testing.T) {
	p := NewPalindrome("", 4)

	res := p.Step('A')
	assert.Equal(t, "Read 'A': Q0 → Q0 [PUSH] stack=ε→A", res.Description)
	assert.False(t, res.Accepted)
	assert.Equal(t, "push", p.Mode())

	for _, b := range []byte("CGTACGT") {
		res = p.Step(b)
		assert.False(t, res.Accepted)
	}
	assert.Equal(t, []byte("ACGTACGT"), p.Stack())
	assert.Equal(t, "push", p.Mode())

	res = p.Step('A')
	assert.Equal(t, "Read 'A': Q0 → Q1 [SHIFT] stack=ACGTACGT→CGTACGTA", res.Description)
	assert.Equal(t, "pop", p.Mode())
	assert.Len(t, p.Stack(), StackDepth)

	res = p.Step('C')
	assert.Equal(t, StateSet{1}, res.States)
	assert.Equal(t, []byte("GTACGTAC"), p.Stack())
}

func TestPalindrome_ForeignSymbolIgnored(t *testing.T) {
	p := NewPalindrome("", 4)
	p.Step('G')

	var res StepResult
	require.NotPanics(t, func() { res = p.Step('N') })
	assert.False(t, res.Accepted)
	assert.Equal(t, "Read 'N': Q0 → Q0 ('N' not in alphabet: ignored)", res.Description)
	assert.Equal(t, []byte("G"), p.Stack())
}

func TestPalindrome_FindAllMatchesResetsStack(t *testing.T) {
	p := NewPalindrome("", 4)
	for _, b := range []byte("ACGTACGTAC") {
		p.Step(b)
	}

	first := p.FindAllMatches("GAATTCGATC")
	second := p.FindAllMatches("GAATTCGATC")

	assert.Equal(t, first, second)
	assert.Empty(t, p.Stack())
	assert.Equal(t, "push", p.Mode())
}

func TestPalindrome_Structure(t *testing.T) {
	p := NewPalindrome("", 4)

	assert.Equal(t, KindPalindrome, p.Kind())
	assert.Equal(t, []State{0, 1}, p.States())
	assert.Equal(t, StateSet{0}, p.InitialStates())
	assert.Empty(t, p.AcceptStates())

	tr := p.Transitions()
	assert.Len(t, tr, 8)
	assert.Equal(t, StateSet{0, 1}, tr[Edge{From: 0, Symbol: 'G'}])
	assert.Equal(t, StateSet{1}, tr[Edge{From: 1, Symbol: 'T'}])

	assert.Equal(t, "Scanning: pushing bases onto the stack (depth up to 8)", p.StateDescription(0))
	assert.Equal(t, "Stack Sliding: oldest base discarded on every push", p.StateDescription(1))
}
