package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWriterWriteFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		writer := NewLocalWriter()
		path := filepath.Join(t.TempDir(), "nested", "deeper", "out.js")

		require.NoError(t, writer.WriteFile(path, []byte("var a = 1;")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "var a = 1;", string(data))
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		writer := NewLocalWriter()
		path := filepath.Join(t.TempDir(), "out.js")

		require.NoError(t, writer.WriteFile(path, []byte("first")))
		require.NoError(t, writer.WriteFile(path, []byte("second")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})
}
