package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motifsim/internal/alphabet"
)

func TestGenerateSeeded(t *testing.T) {
	out, err := runCLI(t, "generate", "-n", "40", "--seed", "42")
	require.NoError(t, err)

	want := alphabet.RandomSequence(alphabet.NewSource(42), 40)
	assert.Equal(t, want+"\n", out)

	again, err := runCLI(t, "generate", "-n", "40", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenerateFASTA(t *testing.T) {
	out, err := runCLI(t, "generate", "-n", "130", "--seed", "1", "--id", "rand1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ">rand1", lines[0])
	assert.Len(t, lines[1], 60)
	assert.Len(t, lines[2], 60)
	assert.Len(t, lines[3], 10)
	assert.Equal(t, alphabet.RandomSequence(alphabet.NewSource(1), 130), lines[1]+lines[2]+lines[3])
}

func TestGenerateJSON(t *testing.T) {
	out, err := runCLI(t, "--format", "json", "generate", "-n", "12", "--seed", "9")
	require.NoError(t, err)

	var result GenerateResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint64(9), result.Seed)
	assert.Equal(t, 12, result.Length)
	assert.Len(t, result.Sequence, 12)
	assert.Empty(t, strings.Trim(result.Sequence, "ATGC"))
}

func TestGenerateErrors(t *testing.T) {
	_, err := runCLI(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	_, err = runCLI(t, "generate", "-n", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--length must be positive")
}
