package domain

import (
	"sort"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Engine computes per-line coverage records for a file from the current
// contents of a FileCoverageSource. Nothing is cached between calls.
type Engine struct {
	source  FileCoverageSource
	formula Formula
	noInfo  m.CoverageStatus
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFormula replaces the default Tarantula formula.
func WithFormula(f Formula) EngineOption {
	return func(e *Engine) {
		if f != nil {
			e.formula = f
		}
	}
}

// WithNoInfoStatus sets the status used for lines a run recorded nothing about.
func WithNoInfoStatus(status m.CoverageStatus) EngineOption {
	return func(e *Engine) {
		e.noInfo = status
	}
}

// NewEngine creates a scoring engine reading from source.
func NewEngine(source FileCoverageSource, opts ...EngineOption) *Engine {
	e := &Engine{
		source:  source,
		formula: tarantula{zero: ZeroRatio},
		noInfo:  m.StatusUncovered,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Formula returns the active formula.
func (e *Engine) Formula() Formula {
	return e.formula
}

// Score returns one record per line from 1 to lineCount.
func (e *Engine) Score(path m.Path, lineCount int) []m.LineCoverageRecord {
	if lineCount < 0 {
		lineCount = 0
	}

	entries := e.source.FileCoverages(path)

	totalPassed, totalFailed := 0, 0

	for _, entry := range entries {
		if entry.Passed {
			totalPassed++
		} else {
			totalFailed++
		}
	}

	type run struct {
		view   coverageView
		passed bool
	}

	runs := make([]run, 0, len(entries))

	for _, entry := range entries {
		if entry.Coverage == nil {
			continue
		}

		runs = append(runs, run{view: newCoverageView(entry.Coverage), passed: entry.Passed})
	}

	records := make([]m.LineCoverageRecord, lineCount)

	for i := range records {
		line := i + 1
		record := m.LineCoverageRecord{Line: line}

		for _, r := range runs {
			if r.view.classify(line, e.noInfo) != m.StatusCovered {
				continue
			}

			if r.passed {
				record.NumPassedRuns++
			} else {
				record.NumFailedRuns++
			}
		}

		record.IsCovered = record.NumPassedRuns+record.NumFailedRuns > 0
		if record.IsCovered {
			if score, ok := e.formula.Score(record.NumPassedRuns, record.NumFailedRuns, totalPassed, totalFailed); ok {
				record.Suspiciousness = &score
			}
		}

		records[i] = record
	}

	return records
}

// MaxLine returns the highest line any contributing run has data for. Hosts
// use it when the file itself cannot be read.
func (e *Engine) MaxLine(path m.Path) int {
	maxLine := 0

	for _, entry := range e.source.FileCoverages(path) {
		if n := entry.Coverage.MaxLine(); n > maxLine {
			maxLine = n
		}
	}

	return maxLine
}

// Rank keeps the scored lines of records and orders them from most to least
// suspicious: ascending score, then more failing runs, then line number.
func Rank(path m.Path, records []m.LineCoverageRecord) []m.RankedLine {
	ranked := make([]m.RankedLine, 0, len(records))

	for _, record := range records {
		if _, ok := record.Score(); !ok {
			continue
		}

		ranked = append(ranked, m.RankedLine{Path: path, Record: record})
	}

	sortRanking(ranked)

	return ranked
}

// MergeRankings combines per-file rankings into one ordered list.
func MergeRankings(rankings ...[]m.RankedLine) []m.RankedLine {
	total := 0
	for _, r := range rankings {
		total += len(r)
	}

	merged := make([]m.RankedLine, 0, total)
	for _, r := range rankings {
		merged = append(merged, r...)
	}

	sortRanking(merged)

	return merged
}

// Top returns at most n entries; n <= 0 keeps everything.
func Top(ranked []m.RankedLine, n int) []m.RankedLine {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}

	return ranked[:n]
}

func sortRanking(ranked []m.RankedLine) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		sa, _ := a.Record.Score()
		sb, _ := b.Record.Score()

		if sa != sb {
			return sa < sb
		}

		if a.Record.NumFailedRuns != b.Record.NumFailedRuns {
			return a.Record.NumFailedRuns > b.Record.NumFailedRuns
		}

		if a.Path != b.Path {
			return a.Path < b.Path
		}

		return a.Record.Line < b.Record.Line
	})
}
