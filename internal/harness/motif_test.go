package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motifsim/internal/library"
)

func TestExtractScenarios(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenarios"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios", "a.yaml"), []byte("name: a\n"), 0644))

	t.Run("no scenario", func(t *testing.T) {
		paths, err := ExtractScenarios(library.Motif{Name: "m"}, dir)
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("relative scenario", func(t *testing.T) {
		paths, err := ExtractScenarios(library.Motif{Name: "m", Scenario: "scenarios/a.yaml"}, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "scenarios", "a.yaml")}, paths)
	})

	t.Run("missing scenario", func(t *testing.T) {
		_, err := ExtractScenarios(library.Motif{Name: "m", Scenario: "scenarios/b.yaml"}, dir)
		var notFound *ScenarioNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "m", notFound.Motif)
		assert.Equal(t, filepath.Join(dir, "scenarios", "b.yaml"), notFound.ResolvedPath)
		assert.Contains(t, err.Error(), `motif "m" references scenario file "scenarios/b.yaml"`)
	})
}

func TestValidateMotifScenarios_ProjectLibrary(t *testing.T) {
	lib, errs := library.Load(filepath.Join("..", "..", "testdata", "library"), library.LoadModeCollectAll)
	require.Empty(t, errs)

	result, err := ValidateMotifScenarios(context.Background(), lib)
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 5, result.TotalMotifs)
	assert.Equal(t, 2, result.TotalScenarios)
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, result.Skipped)
}

func TestValidateMotifScenarios_Failures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenarios"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "motifs.cue"), []byte(`package test

motif: atg: {
	automaton: "DFA"
	pattern:   "ATG"
	scenario:  "scenarios/atg.yaml"
}
motif: gatc: {
	automaton: "DFA"
	pattern:   "GATC"
	scenario:  "scenarios/missing.yaml"
}
motif: taa: {
	automaton: "DFA"
	pattern:   "TAA"
	scenario:  "scenarios/wrong_motif.yaml"
}
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios", "atg.yaml"), []byte(`
name: atg
description: "expects two matches where there is one"
library: ".."
motif: atg
sequence: CATG
assertions:
  - type: match_count
    count: 2
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios", "wrong_motif.yaml"), []byte(`
name: wrong_motif
description: "attached to taa but exercises atg"
library: ".."
motif: atg
sequence: ATG
assertions:
  - type: match_count
    count: 1
`), 0644))

	lib, errs := library.Load(dir, library.LoadModeCollectAll)
	require.Empty(t, errs)

	result, err := ValidateMotifScenarios(context.Background(), lib)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalMotifs)
	assert.Equal(t, 0, result.Passed)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Failures, 3)

	byMotif := map[string]string{}
	for _, f := range result.Failures {
		byMotif[f.Motif] = f.Error
	}
	assert.Contains(t, byMotif["atg"], "scenario assertions failed")
	assert.Contains(t, byMotif["gatc"], "does not exist")
	assert.Contains(t, byMotif["taa"], `scenario exercises "atg", not "taa"`)
}

func TestValidateMotifScenarios_Cancelled(t *testing.T) {
	lib, errs := library.Load(filepath.Join("..", "..", "testdata", "library"), library.LoadModeCollectAll)
	require.Empty(t, errs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ValidateMotifScenarios(ctx, lib)
	assert.ErrorIs(t, err, context.Canceled)
}
