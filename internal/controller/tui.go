package controller

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/mouse-blink/suspect/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output    io.Writer
	formatter Formatter
}

// NewTUI creates a new TUI. A nil formatter falls back to the heatmap.
func NewTUI(output io.Writer, formatter Formatter) *TUI {
	if formatter == nil {
		formatter = heatmapFormatter{}
	}

	return &TUI{output: output, formatter: formatter}
}

// DisplayIngest prints the ingest outcome.
func (t *TUI) DisplayIngest(report m.IngestReport, err error) error {
	if err != nil {
		_, _ = fmt.Fprintf(t.output, "ingest error: %v\n", err)

		return err
	}

	_, _ = fmt.Fprintf(t.output, "Ingested %d run(s) (%d failed) · %d pattern(s) · %d file(s)\n",
		report.Applied, report.Failed, report.Patterns, report.Files)

	if len(report.Pending) > 0 {
		_, _ = fmt.Fprintf(t.output, "Not indexed yet (reported once): %s\n", strings.Join(report.Pending, ", "))
	}

	return nil
}

// DisplayLines renders the per-line records of one file.
func (t *TUI) DisplayLines(report m.FileReport) error {
	return t.formatter.FormatLines(t.output, report)
}

// DisplaySummary prints the file-level summary string.
func (t *TUI) DisplaySummary(summary m.FileSummary) error {
	_, err := fmt.Fprintf(t.output, "%s: %s\n", summary.Path, summary)
	return err
}

// DisplayRanking opens an interactive list when the ranking does not fit the
// terminal, and prints it otherwise.
func (t *TUI) DisplayRanking(report m.RankingReport) error {
	if len(report.Lines) == 0 {
		_, err := fmt.Fprintln(t.output, "No scored lines")
		return err
	}

	model := newRankingModel()
	model = model.handleRankingMsg(rankingMsg{report: report})

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	if !model.needsPagination() {
		return t.formatter.FormatRanking(t.output, report)
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}
