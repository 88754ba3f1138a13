package domain

import (
	m "github.com/mouse-blink/suspect/internal/model"
)

// coverageView indexes one run's coverage of a file by line.
type coverageView struct {
	coverage   *m.FileCoverage
	statements map[int]int
	branches   map[int]m.BranchLine
}

func newCoverageView(fc *m.FileCoverage) coverageView {
	return coverageView{
		coverage:   fc,
		statements: fc.LineHits(),
		branches:   fc.BranchesByLine(),
	}
}

// candidates lists every status the function, branch and statement data
// imply for line. The list is empty when the run recorded nothing there.
func (v coverageView) candidates(line int) []m.CoverageStatus {
	var statuses []m.CoverageStatus

	for _, hits := range v.coverage.FunctionsAt(line) {
		statuses = append(statuses, statusFromHits(hits))
	}

	if branch, ok := v.branches[line]; ok {
		if branch.Covered == 0 {
			statuses = append(statuses, m.StatusUncovered)
		} else {
			statuses = append(statuses, m.StatusCovered)
		}
	}

	if hits, ok := v.statements[line]; ok {
		statuses = append(statuses, statusFromHits(hits))
	}

	return statuses
}

// classify resolves the status of line, falling back to noInfo when the run
// holds no data for it.
func (v coverageView) classify(line int, noInfo m.CoverageStatus) m.CoverageStatus {
	status, ok := m.MostSevere(v.candidates(line)...)
	if !ok {
		return noInfo
	}

	return status
}

func statusFromHits(hits int) m.CoverageStatus {
	if hits > 0 {
		return m.StatusCovered
	}

	return m.StatusUncovered
}
