package adapter

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists transformed output. Directories are created on demand.
type Writer interface {
	WriteFile(path string, content []byte) error
}

// LocalWriter is the concrete Writer backed by the local filesystem.
type LocalWriter struct{}

// NewLocalWriter constructs a LocalWriter.
func NewLocalWriter() *LocalWriter {
	return &LocalWriter{}
}

// WriteFile writes content to path, creating parent directories as needed.
func (w *LocalWriter) WriteFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
