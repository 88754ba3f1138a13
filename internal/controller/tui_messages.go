package controller

import (
	"fmt"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Message types.
type rankingMsg struct {
	report m.RankingReport
}

// List item types.
type rankItem struct {
	rank  int
	entry m.RankedLine
}

func (r rankItem) location() string {
	return fmt.Sprintf("%s:%d", r.entry.Path, r.entry.Record.Line)
}

func (r rankItem) FilterValue() string {
	return r.location()
}
