package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

type fileStartMsg struct {
	name  string
	total int
}

type progressMsg m.Progress

type skipMsg struct{}

type ambiguityMsg m.Ambiguity

type fileDoneMsg m.FileResult

type summaryMsg []m.FileResult

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUI implements UI as an interactive Bubble Tea view with a progress bar.
type TUI struct {
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates the TUI and starts its event loop.
func NewTUI(w io.Writer) *TUI {
	t := &TUI{done: make(chan struct{})}
	t.program = tea.NewProgram(newTuiModel(), tea.WithOutput(w))

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return t
}

// StartFile announces the next input.
func (t *TUI) StartFile(name string, totalBytes int) {
	t.program.Send(fileStartMsg{name: name, total: totalBytes})
}

// Progress feeds the progress bar.
func (t *TUI) Progress(p m.Progress) {
	t.program.Send(progressMsg(p))
}

// SkippedOccurrence bumps the skip counter.
func (t *TUI) SkippedOccurrence(offset int, name string, err error) {
	t.program.Send(skipMsg{})
}

// AmbiguousCandidate records an unrenamed ambiguous name.
func (t *TUI) AmbiguousCandidate(amb m.Ambiguity) {
	t.program.Send(ambiguityMsg(amb))
}

// FileDone reports one finished input.
func (t *TUI) FileDone(res m.FileResult) {
	t.program.Send(fileDoneMsg(res))
}

// Summary switches the view to the final result list.
func (t *TUI) Summary(results []m.FileResult) error {
	t.program.Send(summaryMsg(results))

	return nil
}

// Close shuts the event loop down and waits for it.
func (t *TUI) Close() {
	t.program.Quit()
	<-t.done
}

type tuiModel struct {
	bar progress.Model

	file    string
	total   int
	latest  m.Progress
	skipped int

	ambiguities []m.Ambiguity
	results     []m.FileResult
	finished    bool
}

func newTuiModel() tuiModel {
	return tuiModel{bar: progress.New(progress.WithDefaultGradient())}
}

func (mod tuiModel) Init() tea.Cmd {
	return nil
}

func (mod tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return mod, tea.Quit
		}

	case tea.WindowSizeMsg:
		mod.bar.Width = msg.Width - 8

	case fileStartMsg:
		mod.file = msg.name
		mod.total = msg.total
		mod.latest = m.Progress{Total: msg.total}
		mod.skipped = 0
		mod.ambiguities = nil

	case progressMsg:
		mod.latest = m.Progress(msg)

	case skipMsg:
		mod.skipped++

	case ambiguityMsg:
		mod.ambiguities = append(mod.ambiguities, m.Ambiguity(msg))

	case fileDoneMsg:
		mod.results = append(mod.results, m.FileResult(msg))

	case summaryMsg:
		mod.results = msg
		mod.finished = true
	}

	return mod, nil
}

func (mod tuiModel) View() string {
	var sb strings.Builder

	if mod.finished {
		sb.WriteString(titleStyle.Render("jsretk - done"))
		sb.WriteString("\n\n")

		for _, res := range mod.results {
			if res.Err != nil {
				sb.WriteString(errorStyle.Render(fmt.Sprintf("  %s: %v", res.Source, res.Err)))
			} else {
				sb.WriteString(fmt.Sprintf("  %s: %s uniquified, %s smart-renamed -> %s",
					res.Source,
					statStyle.Render(fmt.Sprintf("%d", res.Uniquified)),
					statStyle.Render(fmt.Sprintf("%d", res.SmartRenamed)),
					res.Output))
			}

			sb.WriteString("\n")
		}

		sb.WriteString(subtleStyle.Render("\npress q to quit"))

		return sb.String()
	}

	sb.WriteString(titleStyle.Render("jsretk - " + mod.file))
	sb.WriteString("\n\n")

	pct := 0.0
	if mod.latest.Total > 0 {
		pct = float64(mod.latest.Offset) / float64(mod.latest.Total)
	}

	sb.WriteString("  " + mod.bar.ViewAs(pct))
	sb.WriteString("\n\n")
	sb.WriteString(statStyle.Render(fmt.Sprintf("  offset %d/%d   renamed %d   skipped %d   elapsed %s",
		mod.latest.Offset, mod.latest.Total, mod.latest.Renamed, mod.skipped,
		mod.latest.Elapsed.Round(time.Second))))

	if n := len(mod.ambiguities); n > 0 {
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("\n  %d ambiguous candidates left unrenamed", n)))
	}

	sb.WriteString("\n")

	return sb.String()
}
