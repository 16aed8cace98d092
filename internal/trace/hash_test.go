package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motifsim/internal/automaton"
)

func record(t *testing.T, r *Recorder, kind automaton.Kind, pattern, sequence string) *Trace {
	t.Helper()
	a, err := automaton.New(kind, pattern)
	require.NoError(t, err)
	tr, err := r.Record(context.Background(), a, sequence)
	require.NoError(t, err)
	return tr
}

func TestHashWithDomain(t *testing.T) {
	h1 := hashWithDomain(DomainTrace, []byte("data"))
	h2 := hashWithDomain(DomainTrace, []byte("data"))
	h3 := hashWithDomain("motifsim/other/v1", []byte("data"))

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3, "domain separates hashes")
}

func TestFingerprint_StableAcrossRuns(t *testing.T) {
	// Default recorders draw fresh UUIDv7 run IDs and fresh clocks.
	r := NewRecorder()
	first := record(t, r, automaton.KindGap, "TATA{1,3}TATA", "TATAGTATA")
	second := record(t, r, automaton.KindGap, "TATA{1,3}TATA", "TATAGTATA")

	require.NotEqual(t, first.RunID, second.RunID)
	require.NotEqual(t, first.Events[0].Seq, second.Events[0].Seq)
	assert.Equal(t, MustFingerprint(first), MustFingerprint(second))
}

func TestFingerprint_DependsOnContent(t *testing.T) {
	r := NewRecorder()
	base := MustFingerprint(record(t, r, automaton.KindExact, "ATG", "CATGATG"))

	assert.NotEqual(t, base, MustFingerprint(record(t, r, automaton.KindExact, "ATG", "CATGATC")))
	assert.NotEqual(t, base, MustFingerprint(record(t, r, automaton.KindExact, "ATC", "CATGATG")))
	assert.NotEqual(t, base, MustFingerprint(record(t, r, automaton.KindAlternation, "ATG", "CATGATG")))
}

func TestFingerprint_ExcludesIdentity(t *testing.T) {
	tr := record(t, NewRecorder(), automaton.KindExact, "AT", "GAT")

	full, err := tr.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(full), `"run_id"`)
	assert.Contains(t, string(full), `"seq"`)

	hashed, err := MarshalCanonical(tr.value(false))
	require.NoError(t, err)
	assert.NotContains(t, string(hashed), `"run_id"`)
	assert.NotContains(t, string(hashed), `"seq"`)

	fp, err := Fingerprint(tr)
	require.NoError(t, err)
	assert.Equal(t, hashWithDomain(DomainTrace, hashed), fp)
}
