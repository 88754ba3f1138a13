package domain

import (
	"fmt"
	"math"
)

// FormulaKind selects a suspiciousness formula.
type FormulaKind string

// Available formulas. Every formula scores lower for more suspicious lines.
const (
	FormulaTarantula FormulaKind = "tarantula"
	FormulaOchiai    FormulaKind = "ochiai"
)

// ZeroPolicy decides what happens when the passing or failing run population
// of a file is empty.
type ZeroPolicy string

const (
	// ZeroRatio treats the ratio of an empty population as 0, so lines only
	// passing runs touch score 1 and lines only failing runs touch score 0.
	ZeroRatio ZeroPolicy = "zero-ratio"
	// ZeroUndefined leaves the score undefined whenever either population is empty.
	ZeroUndefined ZeroPolicy = "undefined"
)

// Formula turns per-line run counts into a suspiciousness in [0, 1].
type Formula interface {
	Name() string
	// Score reports false when the score is undefined for these counts.
	Score(passed, failed, totalPassed, totalFailed int) (float64, bool)
}

// NewFormula builds the formula selected by kind.
func NewFormula(kind FormulaKind, zero ZeroPolicy) (Formula, error) {
	switch zero {
	case ZeroRatio, ZeroUndefined:
	case "":
		zero = ZeroRatio
	default:
		return nil, fmt.Errorf("unknown zero-denominator policy %q", zero)
	}

	switch kind {
	case FormulaTarantula, "":
		return tarantula{zero: zero}, nil
	case FormulaOchiai:
		return ochiai{zero: zero}, nil
	default:
		return nil, fmt.Errorf("unknown formula %q", kind)
	}
}

type tarantula struct {
	zero ZeroPolicy
}

func (t tarantula) Name() string { return string(FormulaTarantula) }

// Score computes (p/P) / ((p/P) + (f/F)).
func (t tarantula) Score(passed, failed, totalPassed, totalFailed int) (float64, bool) {
	if t.zero == ZeroUndefined && (totalPassed == 0 || totalFailed == 0) {
		return 0, false
	}

	passRatio := ratio(passed, totalPassed)
	failRatio := ratio(failed, totalFailed)

	denom := passRatio + failRatio
	if denom == 0 {
		return 0, false
	}

	return clamp01(passRatio / denom), true
}

type ochiai struct {
	zero ZeroPolicy
}

func (o ochiai) Name() string { return string(FormulaOchiai) }

// Score computes 1 - f / sqrt(F * (f + p)).
func (o ochiai) Score(passed, failed, totalPassed, totalFailed int) (float64, bool) {
	if o.zero == ZeroUndefined && (totalPassed == 0 || totalFailed == 0) {
		return 0, false
	}

	if passed+failed == 0 {
		return 0, false
	}

	if totalFailed == 0 {
		return 1, true
	}

	return clamp01(1 - float64(failed)/math.Sqrt(float64(totalFailed)*float64(failed+passed))), true
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(n) / float64(total)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
