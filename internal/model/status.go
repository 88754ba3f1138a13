package model

import "fmt"

// CoverageStatus classifies how a line was exercised by a single test run.
// Values are ordered by severity: a higher value dominates a lower one.
type CoverageStatus int

const (
	// StatusCovered means the line executed.
	StatusCovered CoverageStatus = iota
	// StatusPartiallyCovered means only some of the line's paths executed.
	StatusPartiallyCovered
	// StatusUncovered means the line did not execute.
	StatusUncovered
)

func (s CoverageStatus) String() string {
	switch s {
	case StatusCovered:
		return "covered"
	case StatusPartiallyCovered:
		return "partially-covered"
	case StatusUncovered:
		return "uncovered"
	default:
		return fmt.Sprintf("CoverageStatus(%d)", int(s))
	}
}

// ParseCoverageStatus converts the textual form back into a status.
func ParseCoverageStatus(s string) (CoverageStatus, error) {
	switch s {
	case "covered":
		return StatusCovered, nil
	case "partially-covered":
		return StatusPartiallyCovered, nil
	case "uncovered":
		return StatusUncovered, nil
	default:
		return 0, fmt.Errorf("unknown coverage status %q", s)
	}
}

// MostSevere picks the dominant status. It reports false for an empty list.
func MostSevere(statuses ...CoverageStatus) (CoverageStatus, bool) {
	if len(statuses) == 0 {
		return 0, false
	}

	worst := statuses[0]
	for _, s := range statuses[1:] {
		if s > worst {
			worst = s
		}
	}

	return worst, true
}
