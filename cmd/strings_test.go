package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

func runStrings(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newStringsCmd())
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"strings"}, args...))

	err := cmd.Execute()

	return buf.String(), err
}

func TestStringsCmd_ExtractsLiterals(t *testing.T) {
	input := filepath.Join("..", "examples", "strings", "literals.js")

	out, err := runStrings(t, input)
	require.NoError(t, err)

	assert.Contains(t, out, "https://api.example.com/v1")
	assert.Contains(t, out, "hello ${name}, welcome back")
}

func TestStringsCmd_CommentsOnly(t *testing.T) {
	input := filepath.Join("..", "examples", "strings", "literals.js")

	out, err := runStrings(t, "--comments-only", input)
	require.NoError(t, err)

	assert.Contains(t, out, "configuration constants")
	assert.NotContains(t, out, "https://api.example.com/v1")
}

func TestStringsCmd_MatchFilter(t *testing.T) {
	input := filepath.Join("..", "examples", "strings", "literals.js")

	out, err := runStrings(t, "-m", "^https?://", input)
	require.NoError(t, err)

	assert.Contains(t, out, "https://api.example.com/v1")
	assert.NotContains(t, out, "hello")
}

func TestStringsCmd_RejectsExclusiveModes(t *testing.T) {
	input := filepath.Join("..", "examples", "strings", "literals.js")

	_, err := runStrings(t, "--comments-only", "--regexp-only", input)
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrInvalidArgument)
}

func TestStringsCmd_RejectsBadMatchPattern(t *testing.T) {
	input := filepath.Join("..", "examples", "strings", "literals.js")

	_, err := runStrings(t, "-m", "(unclosed", input)
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrInvalidArgument)
}

func TestStringsCmd_RejectsInvertedLengthBounds(t *testing.T) {
	input := filepath.Join("..", "examples", "strings", "literals.js")

	_, err := runStrings(t, "--min-len", "10", "--max-len", "5", input)
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrInvalidArgument)
}
