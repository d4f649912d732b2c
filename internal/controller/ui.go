// Package controller provides output adapters for displaying renaming
// progress and results.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// UI is the sink for everything a long run needs to surface: continuous
// progress (runs may take minutes to hours), skipped occurrences, ambiguous
// heuristic candidates and the final per-file summary.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// StartFile announces the next input and its size in bytes.
	StartFile(name string, totalBytes int)
	// Progress reports an engine step; implementations are expected to
	// throttle their own rendering.
	Progress(p m.Progress)
	// SkippedOccurrence reports a non-fatal resolution failure.
	SkippedOccurrence(offset int, name string, err error)
	// AmbiguousCandidate reports a synthetic name left unrenamed because it
	// collected several distinct replacement candidates.
	AmbiguousCandidate(amb m.Ambiguity)
	// FileDone reports the outcome for the current input.
	FileDone(res m.FileResult)
	// Summary renders the batch result table.
	Summary(results []m.FileResult) error
	// Close finalizes the UI.
	Close()
}

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
