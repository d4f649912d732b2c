package controller

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// progressInterval throttles plain-text progress lines.
const progressInterval = 2 * time.Second

// SimpleUI implements UI using cobra Command's output stream. Suitable for
// pipes and CI logs.
type SimpleUI struct {
	cmd *cobra.Command

	current      string
	lastProgress time.Time
	skipped      int
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// StartFile announces the next input.
func (s *SimpleUI) StartFile(name string, totalBytes int) {
	s.current = name
	s.skipped = 0
	s.lastProgress = time.Time{}
	s.printf("processing %s (%d bytes)\n", name, totalBytes)
}

// Progress prints a status line at most every progressInterval.
func (s *SimpleUI) Progress(p m.Progress) {
	if time.Since(s.lastProgress) < progressInterval {
		return
	}

	s.lastProgress = time.Now()

	pct := 0.0
	if p.Total > 0 {
		pct = float64(p.Offset) / float64(p.Total) * 100
	}

	s.printf("  %5.1f%%  offset %d/%d  renamed %d  elapsed %s\n",
		pct, p.Offset, p.Total, p.Renamed, p.Elapsed.Round(time.Second))
}

// SkippedOccurrence counts resolution failures; totals appear in the
// summary rather than flooding the log.
func (s *SimpleUI) SkippedOccurrence(offset int, name string, err error) {
	s.skipped++
}

// AmbiguousCandidate prints a synthetic name left unrenamed and why.
func (s *SimpleUI) AmbiguousCandidate(amb m.Ambiguity) {
	s.printf("  ambiguous: %s has %d candidates (%s), left unrenamed\n",
		amb.Name, len(amb.Candidates), strings.Join(amb.Candidates, ", "))
}

// FileDone reports one finished input.
func (s *SimpleUI) FileDone(res m.FileResult) {
	if res.Err != nil {
		s.printf("  failed: %v\n", res.Err)

		return
	}

	s.printf("  done: %d uniquified, %d smart-renamed, %d skipped -> %s\n",
		res.Uniquified, res.SmartRenamed, res.Skipped, res.Output)
}

// Summary renders the batch result table.
func (s *SimpleUI) Summary(results []m.FileResult) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Source", "Uniquified", "Smart", "Ambiguous", "Skipped", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	totalRenamed := 0

	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}

		totalRenamed += res.Uniquified + res.SmartRenamed

		table.Append([]string{
			res.Source,
			fmt.Sprintf("%d", res.Uniquified),
			fmt.Sprintf("%d", res.SmartRenamed),
			fmt.Sprintf("%d", len(res.Ambiguous)),
			fmt.Sprintf("%d", res.Skipped),
			status,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		fmt.Sprintf("%d", totalRenamed), "", "", "", "",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
