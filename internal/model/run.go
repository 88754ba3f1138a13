package model

import "fmt"

// RunManifest describes one completed test run on disk.
type RunManifest struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	Passed   bool   `yaml:"passed" json:"passed"`
	Coverage Path   `yaml:"coverage" json:"coverage"`
	// Source is the manifest file itself, filled in by the reader.
	Source Path `yaml:"-" json:"-"`
}

// TestRun is a manifest with its coverage loaded.
type TestRun struct {
	Pattern  string
	Passed   bool
	Coverage CoverageMap
	Source   Path
}

// FileCoverageEntry is one test pattern's contribution to a file.
// Coverage is nil when the pattern holds no data for the file.
type FileCoverageEntry struct {
	Coverage *FileCoverage
	Pattern  string
	Passed   bool
}

// FileSummary counts the passing and failing patterns indexed against a file.
type FileSummary struct {
	Path   Path `yaml:"path" json:"path"`
	Passed int  `yaml:"passed" json:"passed"`
	Failed int  `yaml:"failed" json:"failed"`
}

// Total returns the number of contributing patterns.
func (s FileSummary) Total() int {
	return s.Passed + s.Failed
}

func (s FileSummary) String() string {
	return fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
}
