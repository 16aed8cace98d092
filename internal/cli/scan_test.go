package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSequenceText(t *testing.T) {
	out, err := runCLI(t, "scan", "-t", "DFA", "-p", "ATG", "-s", "CATGATG")
	require.NoError(t, err)

	want := `DFA ATG

sequence (7 bp): 2 match(es)
  1-3  ATG
  4-6  ATG

Total: 2 match(es) in 1 sequence(s)
`
	assert.Equal(t, want, out)
}

func TestScanSequenceJSON(t *testing.T) {
	out, err := runCLI(t, "--format", "json", "scan", "-t", "NFA", "-p", "TAA|TGA", "-s", "ATGTAAGTGA")
	require.NoError(t, err)

	var result ScanResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, result.TotalMatches)
	require.Len(t, result.Records, 1)
	assert.Equal(t, []MatchResult{
		{Start: 3, End: 5, Text: "TAA"},
		{Start: 7, End: 9, Text: "TGA"},
	}, result.Records[0].Matches)
}

func TestScanEmptySequence(t *testing.T) {
	out, err := runCLI(t, "scan", "-t", "DFA", "-p", "ATG", "-s", "")
	require.NoError(t, err)
	assert.Contains(t, out, "sequence (0 bp): 0 match(es)")
}

func TestScanLibraryMotif(t *testing.T) {
	out, err := runCLI(t, "scan", "--library", libraryDir, "--motif", "tata_box", "-s", "GGTATAGTATACC")
	require.NoError(t, err)
	assert.Contains(t, out, "ENFA TATA{1,10}TATA")
	assert.Contains(t, out, "  2-10  TATAGTATA")
}

func TestScanFASTA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reads.fa")
	require.NoError(t, os.WriteFile(path, []byte(">r1 first read\nCATG\nATG\n>r2\nGGGG\n"), 0644))

	out, err := runCLI(t, "--format", "json", "scan", "-t", "exact", "-p", "ATG", "--fasta", path)
	require.NoError(t, err)

	var result ScanResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "r1", result.Records[0].ID)
	assert.Equal(t, 7, result.Records[0].Length)
	assert.Len(t, result.Records[0].Matches, 2)
	assert.Equal(t, "r2", result.Records[1].ID)
	assert.Empty(t, result.Records[1].Matches)
	assert.Equal(t, 2, result.TotalMatches)
}

func TestScanRandomIsReproducible(t *testing.T) {
	args := []string{"--format", "json", "scan", "-t", "DFA", "-p", "AT", "--random", "500", "--seed", "7"}

	first, err := runCLI(t, args...)
	require.NoError(t, err)
	second, err := runCLI(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var result ScanResult
	decodeResponse(t, first, &result)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "random(seed=7)", result.Records[0].ID)
	assert.Equal(t, 500, result.Records[0].Length)
}

func TestScanInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit int
		wantMsg  string
	}{
		{"no input", []string{"scan", "-t", "DFA", "-p", "A"}, ExitCommandError, "exactly one of"},
		{"two inputs", []string{"scan", "-t", "DFA", "-p", "A", "-s", "A", "--random", "5"}, ExitCommandError, "exactly one of"},
		{"negative random", []string{"scan", "-t", "DFA", "-p", "A", "--random", "-1"}, ExitCommandError, "--random must be positive"},
		{"missing fasta", []string{"scan", "-t", "DFA", "-p", "A", "--fasta", "/nonexistent/reads.fa"}, ExitCommandError, ErrCodeInputFailed},
		{"construction", []string{"scan", "-t", "XYZ", "-p", "A", "-s", "A"}, ExitFailure, "unsupported automaton type: XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
