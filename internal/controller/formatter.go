package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "github.com/mouse-blink/suspect/internal/model"
)

// FormatKind selects how results are rendered.
type FormatKind string

// Available output formats.
const (
	FormatTable   FormatKind = "table"
	FormatJSON    FormatKind = "json"
	FormatHeatmap FormatKind = "heatmap"
)

// Formatter renders line records and rankings.
type Formatter interface {
	FormatLines(w io.Writer, report m.FileReport) error
	FormatRanking(w io.Writer, report m.RankingReport) error
}

// NewFormatter returns the formatter for kind.
func NewFormatter(kind FormatKind) (Formatter, error) {
	switch kind {
	case FormatTable, "":
		return tableFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatHeatmap:
		return heatmapFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", kind)
	}
}

type tableFormatter struct{}

// FormatLines lists covered lines only; uncovered lines carry no evidence.
func (tableFormatter) FormatLines(w io.Writer, report m.FileReport) error {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Line", "Passed", "Failed", "Suspiciousness"})

	covered := 0

	for _, record := range report.Records {
		if !record.IsCovered {
			continue
		}

		covered++

		table.Append([]string{
			fmt.Sprintf("%d", record.Line),
			fmt.Sprintf("%d", record.NumPassedRuns),
			fmt.Sprintf("%d", record.NumFailedRuns),
			scoreText(record),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Covered %d/%d", covered, len(report.Records)),
		fmt.Sprintf("%d", report.Summary.Passed),
		fmt.Sprintf("%d", report.Summary.Failed),
		"",
	})

	table.Render()

	_, err := fmt.Fprintf(w, "%s\n%s", report.Path, buf.String())

	return err
}

func (tableFormatter) FormatRanking(w io.Writer, report m.RankingReport) error {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Rank", "File", "Line", "Passed", "Failed", "Suspiciousness"})

	for i, entry := range report.Lines {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			string(entry.Path),
			fmt.Sprintf("%d", entry.Record.Line),
			fmt.Sprintf("%d", entry.Record.NumPassedRuns),
			fmt.Sprintf("%d", entry.Record.NumFailedRuns),
			scoreText(entry.Record),
		})
	}

	table.SetFooter([]string{"", fmt.Sprintf("Files %d", len(report.Summaries)), "", "", "", report.Formula})
	table.Render()

	_, err := fmt.Fprint(w, buf.String())

	return err
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")

	alignment := make([]int, len(header))
	for i := range alignment {
		alignment[i] = tablewriter.ALIGN_RIGHT
	}

	table.SetColumnAlignment(alignment)

	return table
}

type jsonFormatter struct{}

type jsonLines struct {
	Path    m.Path                 `json:"path"`
	Summary m.FileSummary          `json:"summary"`
	Lines   []m.LineCoverageRecord `json:"lines"`
}

func (jsonFormatter) FormatLines(w io.Writer, report m.FileReport) error {
	records := report.Records
	if records == nil {
		records = []m.LineCoverageRecord{}
	}

	return writeJSON(w, jsonLines{Path: report.Path, Summary: report.Summary, Lines: records})
}

func (jsonFormatter) FormatRanking(w io.Writer, report m.RankingReport) error {
	return writeJSON(w, report)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// heatmapFormatter prints source lines with a gutter colored by score.
type heatmapFormatter struct{}

func (heatmapFormatter) FormatLines(w io.Writer, report m.FileReport) error {
	gutter := lipgloss.NewStyle().Width(6).Align(lipgloss.Right).Foreground(lipgloss.Color("8"))
	counts := lipgloss.NewStyle().Width(9).Align(lipgloss.Right)

	var b strings.Builder

	fmt.Fprintf(&b, "%s  (%s)\n", report.Path, report.Summary)

	for i, record := range report.Records {
		text := ""
		if i < len(report.Source) {
			text = report.Source[i]
		}

		tally := ""
		if record.IsCovered {
			tally = fmt.Sprintf("%d✓ %d✗", record.NumPassedRuns, record.NumFailedRuns)
		}

		line := text
		if score, ok := record.Score(); ok {
			line = lipgloss.NewStyle().Foreground(ScoreColor(score)).Render(text)
		}

		fmt.Fprintf(&b, "%s %s %s  %s\n",
			gutter.Render(fmt.Sprintf("%d", record.Line)),
			counts.Render(tally),
			scoreCell(styledScore(record)),
			line,
		)
	}

	_, err := fmt.Fprint(w, b.String())

	return err
}

func (heatmapFormatter) FormatRanking(w io.Writer, report m.RankingReport) error {
	var b strings.Builder

	for i, entry := range report.Lines {
		fmt.Fprintf(&b, "%4d  %s  %s:%d  (%d passed, %d failed)\n",
			i+1,
			styledScore(entry.Record),
			entry.Path,
			entry.Record.Line,
			entry.Record.NumPassedRuns,
			entry.Record.NumFailedRuns,
		)
	}

	_, err := fmt.Fprint(w, b.String())

	return err
}
