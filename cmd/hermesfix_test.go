package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeanPesce/JSRETK/internal/domain"
	m "github.com/SeanPesce/JSRETK/internal/model"
)

func TestHermesFixCmd_FixesDecompilerOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "fixed.js")
	input := filepath.Join("..", "examples", "hermes", "decompiled.js")

	cmd := newTestRoot(newHermesFixCmd())
	cmd.SetArgs([]string{"hermesfix", "-o", outPath, input})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	assert.Contains(t, string(data), "obj[`@@iterator`]")
	assert.NotContains(t, string(data), ".@@iterator")
	assert.NotContains(t, string(data), `\\/`)
}

func TestHermesFixCmd_DefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "decomp.js")
	require.NoError(t, os.WriteFile(input, []byte("var it = obj.@@iterator;"), 0o644))

	cmd := newTestRoot(newHermesFixCmd())
	cmd.SetArgs([]string{"hermesfix", input})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(input + domain.DefaultFixedExt)
	require.NoError(t, err)
	assert.Equal(t, "var it = obj[`@@iterator`];", string(data))
}

func TestHermesFixCmd_RejectsNonPositiveIterations(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "decomp.js")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	cmd := newTestRoot(newHermesFixCmd())
	cmd.SetArgs([]string{"hermesfix", "-n", "0", input})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrInvalidArgument)
}
