package controller

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	m "github.com/mouse-blink/suspect/internal/model"
)

// maxHue is green on the HSL wheel; 0 is red.
const maxHue = 120.0

const scoreWidth = 6

// ScoreHue maps a suspiciousness score onto a hue: 0 (suspicious) is red and
// 1 (benign) is green. Scores outside [0, 1] are clamped.
func ScoreHue(score float64) float64 {
	switch {
	case score < 0:
		score = 0
	case score > 1:
		score = 1
	}

	return score * maxHue
}

// ScoreColor returns the hex color for a score.
func ScoreColor(score float64) lipgloss.Color {
	return lipgloss.Color(colorful.Hsl(ScoreHue(score), 0.85, 0.45).Hex())
}

// scoreText renders a record's score, or "-" when it has none.
func scoreText(record m.LineCoverageRecord) string {
	score, ok := record.Score()
	if !ok {
		if record.IsCovered {
			return "n/a"
		}

		return "-"
	}

	return fmt.Sprintf("%.3f", score)
}

// styledScore colors the score text when one is defined.
func styledScore(record m.LineCoverageRecord) string {
	text := scoreText(record)

	score, ok := record.Score()
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(text)
	}

	return lipgloss.NewStyle().Foreground(ScoreColor(score)).Bold(true).Render(text)
}

// scoreCell right-aligns an already styled score in a fixed-width column.
// The width is measured without escape sequences.
func scoreCell(styled string) string {
	return lipgloss.NewStyle().Width(scoreWidth).Align(lipgloss.Right).Render(styled)
}
