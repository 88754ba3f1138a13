package controller

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/suspect/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd       *cobra.Command
	formatter Formatter
}

// NewSimpleUI creates a new SimpleUI. A nil formatter falls back to tables.
func NewSimpleUI(cmd *cobra.Command, formatter Formatter) *SimpleUI {
	if formatter == nil {
		formatter = tableFormatter{}
	}

	return &SimpleUI{cmd: cmd, formatter: formatter}
}

// DisplayIngest prints how many runs were applied.
func (s *SimpleUI) DisplayIngest(report m.IngestReport, err error) error {
	if err != nil {
		s.printf("ingest error: %v\n", err)
		return err
	}

	s.printf("Ingested %d run(s), %d failed, %d pattern(s) across %d file(s)\n",
		report.Applied, report.Failed, report.Patterns, report.Files)

	if len(report.Pending) > 0 {
		s.printf("%d pattern(s) reported once and are not indexed yet: %s\n",
			len(report.Pending), strings.Join(report.Pending, ", "))
	}

	return nil
}

// DisplayLines renders the per-line records of one file.
func (s *SimpleUI) DisplayLines(report m.FileReport) error {
	return s.formatter.FormatLines(s.cmd.OutOrStdout(), report)
}

// DisplayRanking renders a ranking.
func (s *SimpleUI) DisplayRanking(report m.RankingReport) error {
	if len(report.Lines) == 0 {
		s.printf("No scored lines\n")
		return nil
	}

	return s.formatter.FormatRanking(s.cmd.OutOrStdout(), report)
}

// DisplaySummary prints the file-level summary string.
func (s *SimpleUI) DisplaySummary(summary m.FileSummary) error {
	s.printf("%s: %s\n", summary.Path, summary)
	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
