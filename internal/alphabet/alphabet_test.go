package alphabet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	for i, b := range Bases {
		assert.Equal(t, i, Index(b))
		assert.True(t, Contains(b))
	}

	for _, b := range []byte{'N', 'a', 't', 'U', 0, 0xff} {
		assert.Equal(t, -1, Index(b), "byte %q", b)
		assert.False(t, Contains(b))
	}
}

func TestComplement(t *testing.T) {
	pairs := map[byte]byte{'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G'}
	for b, want := range pairs {
		assert.Equal(t, want, Complement(b))
		assert.Equal(t, b, Complement(Complement(b)), "complement is an involution")
	}

	assert.Equal(t, byte(0), Complement('N'))
	assert.Equal(t, byte(0), Complement('a'))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"ATGC", "ATGC"},
		{"atgc", "ATGC"},
		{"AtGnX", "ATGNX"},
		{"ac-gt", "AC-GT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestNormalize_PreservesByteOffsets(t *testing.T) {
	in := "aç t"
	out := Normalize(in)
	require.Len(t, out, len(in))
	assert.Equal(t, byte('A'), out[0])
}

func TestRandomSequence(t *testing.T) {
	seq := RandomSequence(NewSource(7), 500)
	require.Len(t, seq, 500)
	for i := 0; i < len(seq); i++ {
		assert.True(t, Contains(seq[i]), "position %d holds %q", i, seq[i])
	}

	// Every base shows up in a sequence this long.
	for _, b := range Bases {
		assert.True(t, strings.IndexByte(seq, b) >= 0, "base %c never drawn", b)
	}
}

func TestRandomSequence_DeterministicForSeed(t *testing.T) {
	a := RandomSequence(NewSource(42), 64)
	b := RandomSequence(NewSource(42), 64)
	c := RandomSequence(NewSource(43), 64)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRandomSequence_NonPositiveLength(t *testing.T) {
	assert.Equal(t, "", RandomSequence(NewSource(1), 0))
	assert.Equal(t, "", RandomSequence(NewSource(1), -5))
}
