package model

// LineCoverageRecord is the per-line tally of runs that covered a line.
// Suspiciousness is nil unless the line is covered and the active formula
// defines a score for it.
type LineCoverageRecord struct {
	Line           int      `yaml:"line" json:"line"`
	NumPassedRuns  int      `yaml:"passed_runs" json:"numPassedRuns"`
	NumFailedRuns  int      `yaml:"failed_runs" json:"numFailedRuns"`
	IsCovered      bool     `yaml:"covered" json:"isCovered"`
	Suspiciousness *float64 `yaml:"suspiciousness,omitempty" json:"suspiciousness,omitempty"`
}

// Score returns the suspiciousness and whether it is defined.
func (r LineCoverageRecord) Score() (float64, bool) {
	if r.Suspiciousness == nil {
		return 0, false
	}

	return *r.Suspiciousness, true
}

// RankedLine places a scored line in a cross-file ranking.
type RankedLine struct {
	Path   Path               `yaml:"path" json:"path"`
	Record LineCoverageRecord `yaml:",inline" json:"record"`
}

// RankingReport is the exported form of a ranking.
type RankingReport struct {
	Formula   string        `yaml:"formula" json:"formula"`
	Summaries []FileSummary `yaml:"files" json:"files"`
	Lines     []RankedLine  `yaml:"lines" json:"lines"`
}

// FileReport bundles everything a presenter needs to render one file.
// Source is nil when the file could not be read.
type FileReport struct {
	Path    Path
	Source  []string
	Records []LineCoverageRecord
	Summary FileSummary
}

// IngestReport describes the outcome of feeding manifests into the store.
type IngestReport struct {
	Applied  int
	Failed   int
	Patterns int
	Files    int
	// Pending lists patterns whose coverage is stored but not yet indexed.
	Pending []string
}
