package trace

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motifsim/internal/automaton"
	"github.com/roach88/motifsim/internal/testutil"
)

func newTestRecorder() *Recorder {
	return NewRecorder(
		WithRunIDs(StaticRunID("run-1")),
		WithClock(testutil.NewDeterministicClock()),
	)
}

func TestRecorder_ExactTrace(t *testing.T) {
	a, err := automaton.New(automaton.KindExact, "AT")
	require.NoError(t, err)

	tr, err := newTestRecorder().Record(context.Background(), a, "GAT")
	require.NoError(t, err)

	assert.Equal(t, "run-1", tr.RunID)
	assert.Equal(t, automaton.KindExact, tr.Kind)
	assert.Equal(t, "AT", tr.Pattern)
	require.Len(t, tr.Events, 3)

	assert.Equal(t, Event{
		Seq: 2, Index: 1, Symbol: "A",
		From: automaton.StateSet{0}, To: automaton.StateSet{1},
		Description: "Read 'A': Q0 → Q1 (Matched 1/2)",
		Matches:     []automaton.Match{},
	}, tr.Events[1])

	last := tr.Events[2]
	assert.True(t, last.Accepted)
	assert.Equal(t, int64(3), last.Seq)
	assert.Equal(t, []automaton.Match{{Start: 1, End: 2}}, last.Matches)
	assert.Nil(t, last.Stack)

	assert.Equal(t, automaton.StateSet{0}, tr.Final)
	assert.Equal(t, []automaton.Match{{Start: 1, End: 2}}, tr.Matches)
	assert.Equal(t, []int{2}, tr.AcceptedSteps())
}

func TestRecorder_Canonical(t *testing.T) {
	a, err := automaton.New(automaton.KindExact, "AT")
	require.NoError(t, err)

	tr, err := newTestRecorder().Record(context.Background(), a, "GAT")
	require.NoError(t, err)

	got, err := tr.Canonical()
	require.NoError(t, err)

	want := `{"events":[` +
		`{"accepted":false,"description":"Read 'G': Q0 → Q0","from":[0],"index":0,"matches":[],"seq":1,"symbol":"G","to":[0]},` +
		`{"accepted":false,"description":"Read 'A': Q0 → Q1 (Matched 1/2)","from":[0],"index":1,"matches":[],"seq":2,"symbol":"A","to":[1]},` +
		`{"accepted":true,"description":"Read 'T': Q1 → Q0 [PATTERN MATCHED!]","from":[1],"index":2,"matches":[{"end":2,"start":1}],"seq":3,"symbol":"T","to":[0]}` +
		`],"final":[0],"kind":"DFA","matches":[{"end":2,"start":1}],"pattern":"AT","run_id":"run-1","sequence":"GAT"}`
	assert.Equal(t, want, string(got))
	assert.True(t, json.Valid(got))
}

func TestRecorder_MatchesUnionOfSteps(t *testing.T) {
	tests := []struct {
		kind    automaton.Kind
		pattern string
	}{
		{automaton.KindExact, "AAA"},
		{automaton.KindAlternation, "ATG|TAA|TGA"},
		{automaton.KindGap, "TA{0,3}TA"},
	}
	const seq = "ATGAATAAAATATGGTATAAATGA"

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			a, err := automaton.New(tt.kind, tt.pattern)
			require.NoError(t, err)

			tr, err := newTestRecorder().Record(context.Background(), a, seq)
			require.NoError(t, err)

			var steps []automaton.Match
			for _, ev := range tr.Events {
				steps = append(steps, ev.Matches...)
				assert.Equal(t, len(ev.Matches) > 0, ev.Accepted)
			}
			assert.ElementsMatch(t, tr.Matches, steps)
		})
	}
}

func TestRecorder_PalindromeStack(t *testing.T) {
	a, err := automaton.New(automaton.KindPalindrome, "")
	require.NoError(t, err)

	tr, err := newTestRecorder().Record(context.Background(), a, "GAATTC")
	require.NoError(t, err)

	require.Len(t, tr.Events, 6)
	for i, ev := range tr.Events {
		require.NotNil(t, ev.Stack)
		assert.Equal(t, "GAATTC"[:i+1], *ev.Stack)
		assert.False(t, ev.Accepted)
	}
	assert.Equal(t, []automaton.Match{{Start: 0, End: 5}}, tr.Matches)
	assert.Empty(t, tr.AcceptedSteps())

	got, err := tr.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(got), `"stack":"GAATTC"`)
}

func TestRecorder_SequenceNumbersMonotonic(t *testing.T) {
	a, err := automaton.New(automaton.KindAlternation, "TAA|TGA")
	require.NoError(t, err)

	clock := NewClockAt(100)
	r := NewRecorder(WithClock(clock))

	tr, err := r.Record(context.Background(), a, "TTAATGA")
	require.NoError(t, err)

	for i, ev := range tr.Events {
		assert.Equal(t, int64(101+i), ev.Seq)
		assert.Equal(t, i, ev.Index)
	}
	assert.Equal(t, int64(107), clock.Current())
	assert.Len(t, tr.RunID, 36, "default run IDs are UUIDs")
}

func TestRecorder_LeavesEngineReset(t *testing.T) {
	a, err := automaton.New(automaton.KindExact, "ATG")
	require.NoError(t, err)

	_, err = newTestRecorder().Record(context.Background(), a, "CCAT")
	require.NoError(t, err)
	assert.Equal(t, a.InitialStates(), a.CurrentStates())
}

func TestRecorder_Cancelled(t *testing.T) {
	a, err := automaton.New(automaton.KindExact, "ATG")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, err := newTestRecorder().Record(ctx, a, "ATGATG")
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecorder_ForeignSymbols(t *testing.T) {
	a, err := automaton.New(automaton.KindExact, "ATG")
	require.NoError(t, err)

	tr, err := newTestRecorder().Record(context.Background(), a, "atnATG")
	require.NoError(t, err)

	assert.Equal(t, "N", tr.Events[2].Symbol)
	assert.False(t, tr.Events[2].Accepted)
	assert.Equal(t, []automaton.Match{{Start: 3, End: 5}}, tr.Matches)
}
