// Package model defines the data structures for coverage-based fault localization.
package model

// FunctionMapping describes a function declared in a covered file.
type FunctionMapping struct {
	Name string `json:"name"`
	Decl Range  `json:"decl"`
	Loc  Range  `json:"loc"`
	Line int    `json:"line"`
}

// DeclaredRange returns the lines of the function's declaration, or its
// single declared line when no declaration range was recorded. The body
// range Loc is not part of it.
func (f FunctionMapping) DeclaredRange() Range {
	if !f.Decl.IsZero() {
		return f.Decl
	}

	return Range{Start: Position{Line: f.Line}, End: Position{Line: f.Line}}
}

// BranchMapping describes a branching construct and its alternative locations.
type BranchMapping struct {
	Type      string  `json:"type"`
	Line      int     `json:"line"`
	Loc       Range   `json:"loc"`
	Locations []Range `json:"locations"`
}

// StartLine returns the line the branch is attributed to.
func (b BranchMapping) StartLine() int {
	if b.Line > 0 {
		return b.Line
	}

	if b.Loc.Start.Line > 0 {
		return b.Loc.Start.Line
	}

	if len(b.Locations) > 0 {
		return b.Locations[0].Start.Line
	}

	return 0
}

// FileCoverage is the per-file coverage record: statement, function and
// branch maps keyed by id, with hit counts under the same ids.
type FileCoverage struct {
	Path         Path                       `json:"path"`
	StatementMap map[string]Range           `json:"statementMap"`
	FnMap        map[string]FunctionMapping `json:"fnMap"`
	BranchMap    map[string]BranchMapping   `json:"branchMap"`
	S            map[string]int             `json:"s"`
	F            map[string]int             `json:"f"`
	B            map[string][]int           `json:"b"`
}

// CoverageMap holds the coverage of every file touched by one test run.
type CoverageMap map[Path]*FileCoverage

// BranchLine aggregates all branch locations recorded on one line.
type BranchLine struct {
	Covered int
	Total   int
}

// NewFileCoverage returns an empty coverage record for path.
func NewFileCoverage(path Path) *FileCoverage {
	return &FileCoverage{
		Path:         path,
		StatementMap: map[string]Range{},
		FnMap:        map[string]FunctionMapping{},
		BranchMap:    map[string]BranchMapping{},
		S:            map[string]int{},
		F:            map[string]int{},
		B:            map[string][]int{},
	}
}

// LineHits returns the statement hit count per line. When several statements
// start on the same line the highest count wins.
func (fc *FileCoverage) LineHits() map[int]int {
	lines := make(map[int]int)
	if fc == nil {
		return lines
	}

	for id, loc := range fc.StatementMap {
		count, ok := fc.S[id]
		if !ok || loc.Start.Line <= 0 {
			continue
		}

		if prev, seen := lines[loc.Start.Line]; !seen || prev < count {
			lines[loc.Start.Line] = count
		}
	}

	return lines
}

// BranchesByLine groups branch hit counts by the line each branch starts on.
func (fc *FileCoverage) BranchesByLine() map[int]BranchLine {
	lines := make(map[int]BranchLine)
	if fc == nil {
		return lines
	}

	for id, branch := range fc.BranchMap {
		hits, ok := fc.B[id]
		if !ok || len(hits) == 0 {
			continue
		}

		line := branch.StartLine()
		if line <= 0 {
			continue
		}

		agg := lines[line]
		for _, h := range hits {
			agg.Total++

			if h > 0 {
				agg.Covered++
			}
		}

		lines[line] = agg
	}

	return lines
}

// FunctionsAt returns the hit count of every function whose declared range
// contains line.
func (fc *FileCoverage) FunctionsAt(line int) []int {
	if fc == nil {
		return nil
	}

	var hits []int

	for id, fn := range fc.FnMap {
		count, ok := fc.F[id]
		if !ok {
			continue
		}

		if fn.DeclaredRange().ContainsLine(line) {
			hits = append(hits, count)
		}
	}

	return hits
}

// MaxLine returns the highest line any statement, function or branch touches.
func (fc *FileCoverage) MaxLine() int {
	if fc == nil {
		return 0
	}

	maxLine := 0
	bump := func(r Range) {
		if r.End.Line > maxLine {
			maxLine = r.End.Line
		}

		if r.Start.Line > maxLine {
			maxLine = r.Start.Line
		}
	}

	for _, loc := range fc.StatementMap {
		bump(loc)
	}

	for _, fn := range fc.FnMap {
		bump(fn.DeclaredRange())
		bump(fn.Loc)
	}

	for _, branch := range fc.BranchMap {
		bump(branch.Loc)

		for _, loc := range branch.Locations {
			bump(loc)
		}
	}

	return maxLine
}

// Clone returns a deep copy of the record.
func (fc *FileCoverage) Clone() *FileCoverage {
	if fc == nil {
		return nil
	}

	out := NewFileCoverage(fc.Path)
	for k, v := range fc.StatementMap {
		out.StatementMap[k] = v
	}

	for k, v := range fc.FnMap {
		out.FnMap[k] = v
	}

	for k, v := range fc.BranchMap {
		locs := make([]Range, len(v.Locations))
		copy(locs, v.Locations)
		v.Locations = locs
		out.BranchMap[k] = v
	}

	for k, v := range fc.S {
		out.S[k] = v
	}

	for k, v := range fc.F {
		out.F[k] = v
	}

	for k, v := range fc.B {
		hits := make([]int, len(v))
		copy(hits, v)
		out.B[k] = hits
	}

	return out
}
