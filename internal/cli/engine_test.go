package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motifsim/internal/automaton"
	"github.com/roach88/motifsim/internal/library"
)

func TestBuildEngine_Flags(t *testing.T) {
	tests := []struct {
		name     string
		opts     EngineOptions
		wantCode string
		wantExit int
		wantMsg  string
	}{
		{"type and motif", EngineOptions{Type: "DFA", Motif: "m", Library: "."}, ErrCodeInvalidFlags, ExitCommandError, "mutually exclusive"},
		{"motif without library", EngineOptions{Motif: "m"}, ErrCodeInvalidFlags, ExitCommandError, "requires --library"},
		{"motif with pattern", EngineOptions{Motif: "m", Library: ".", Pattern: "ATG"}, ErrCodeInvalidFlags, ExitCommandError, "come from the library"},
		{"nothing selected", EngineOptions{}, ErrCodeInvalidFlags, ExitCommandError, "one of --type or --motif"},
		{"negative min length", EngineOptions{Type: "PDA", MinLength: -2}, ErrCodeInvalidFlags, ExitCommandError, "non-negative"},
		{"unknown type", EngineOptions{Type: "XYZ", Pattern: "ATG"}, ErrCodeConstruction, ExitFailure, "unsupported automaton type: XYZ"},
		{"bad gap", EngineOptions{Type: "gap", Pattern: "TATA{4,1}TATA"}, ErrCodeConstruction, ExitFailure, "invalid pattern"},
		{"missing motif", EngineOptions{Motif: "nope", Library: libraryDir}, ErrCodeMotifNotFound, ExitCommandError, `motif "nope" not found`},
		{"missing library", EngineOptions{Motif: "m", Library: "/nonexistent/lib"}, library.ErrCodeNotFound, ExitCommandError, "library directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: "text", Writer: buf}

			a, err := buildEngine(&tt.opts, f)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, buf.String(), "Error ["+tt.wantCode+"]")
		})
	}
}

func TestBuildEngine_Direct(t *testing.T) {
	f := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}}

	a, err := buildEngine(&EngineOptions{Type: "palindrome", MinLength: 6}, f)
	require.NoError(t, err)
	assert.Equal(t, automaton.KindPalindrome, a.Kind())
	assert.Equal(t, []automaton.Match{{Start: 0, End: 5}}, a.FindAllMatches("GAATTC"))
}

func TestBuildEngine_FromLibrary(t *testing.T) {
	f := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}}

	a, err := buildEngine(&EngineOptions{Library: libraryDir, Motif: "stop_codons"}, f)
	require.NoError(t, err)
	assert.Equal(t, automaton.KindAlternation, a.Kind())
	assert.Equal(t, "TAA|TAG|TGA", a.Pattern())
}
