// Package controller provides presenters for suspiciousness results.
package controller

import (
	m "github.com/mouse-blink/suspect/internal/model"
)

// UI defines the interface for displaying coverage attribution results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayIngest(report m.IngestReport, err error) error
	DisplayLines(report m.FileReport) error
	DisplayRanking(report m.RankingReport) error
	DisplaySummary(summary m.FileSummary) error
}
