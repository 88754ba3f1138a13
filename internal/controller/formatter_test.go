package controller

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

func ptr(v float64) *float64 { return &v }

func sampleFileReport() m.FileReport {
	return m.FileReport{
		Path:   "/src/app.ts",
		Source: []string{"function run() {", "  fail()", "  ok()", "}"},
		Records: []m.LineCoverageRecord{
			{Line: 1},
			{Line: 2, NumFailedRuns: 2, IsCovered: true, Suspiciousness: ptr(0)},
			{Line: 3, NumPassedRuns: 1, NumFailedRuns: 1, IsCovered: true, Suspiciousness: ptr(0.5)},
			{Line: 4},
		},
		Summary: m.FileSummary{Path: "/src/app.ts", Passed: 1, Failed: 2},
	}
}

func sampleRanking() m.RankingReport {
	return m.RankingReport{
		Formula:   "tarantula",
		Summaries: []m.FileSummary{{Path: "/src/app.ts", Passed: 1, Failed: 2}},
		Lines: []m.RankedLine{
			{Path: "/src/app.ts", Record: m.LineCoverageRecord{Line: 2, NumFailedRuns: 2, IsCovered: true, Suspiciousness: ptr(0)}},
			{Path: "/src/app.ts", Record: m.LineCoverageRecord{Line: 3, NumPassedRuns: 1, NumFailedRuns: 1, IsCovered: true, Suspiciousness: ptr(0.5)}},
		},
	}
}

func TestNewFormatter(t *testing.T) {
	for _, kind := range []FormatKind{"", FormatTable, FormatJSON, FormatHeatmap} {
		f, err := NewFormatter(kind)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("xml")
	assert.Error(t, err)
}

func TestTableFormatter_FormatLines(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, tableFormatter{}.FormatLines(&buf, sampleFileReport()))

	output := buf.String()
	for _, want := range []string{"/src/app.ts", "SUSPICIOUSNESS", "0.000", "0.500", "COVERED 2/4"} {
		assert.Contains(t, output, want)
	}

	assert.NotContains(t, output, "function run", "tables do not echo source")
}

func TestTableFormatter_FormatRanking(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, tableFormatter{}.FormatRanking(&buf, sampleRanking()))

	output := buf.String()
	for _, want := range []string{"RANK", "/src/app.ts", "0.000", "0.500", "FILES 1", "TARANTULA"} {
		assert.Contains(t, output, want)
	}

	assert.Less(t, strings.Index(output, "0.000"), strings.Index(output, "0.500"))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, jsonFormatter{}.FormatLines(&buf, sampleFileReport()))

	var lines struct {
		Path    string `json:"path"`
		Summary struct {
			Passed int `json:"passed"`
			Failed int `json:"failed"`
		} `json:"summary"`
		Lines []struct {
			Line           int      `json:"line"`
			IsCovered      bool     `json:"isCovered"`
			Suspiciousness *float64 `json:"suspiciousness"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &lines))

	assert.Equal(t, "/src/app.ts", lines.Path)
	assert.Equal(t, 2, lines.Summary.Failed)
	require.Len(t, lines.Lines, 4)
	assert.Nil(t, lines.Lines[0].Suspiciousness)
	require.NotNil(t, lines.Lines[2].Suspiciousness)
	assert.InDelta(t, 0.5, *lines.Lines[2].Suspiciousness, 1e-9)

	buf.Reset()
	require.NoError(t, jsonFormatter{}.FormatLines(&buf, m.FileReport{Path: "empty.ts"}))
	assert.Contains(t, buf.String(), `"lines": []`)

	buf.Reset()
	require.NoError(t, jsonFormatter{}.FormatRanking(&buf, sampleRanking()))
	assert.Contains(t, buf.String(), `"formula": "tarantula"`)
}

func TestHeatmapFormatter(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, heatmapFormatter{}.FormatLines(&buf, sampleFileReport()))

	output := buf.String()
	assert.Contains(t, output, "1 passed, 2 failed")
	assert.Contains(t, output, "fail()")
	assert.Contains(t, output, "0✓ 2✗")
	assert.Equal(t, 5, strings.Count(output, "\n"))

	buf.Reset()
	require.NoError(t, heatmapFormatter{}.FormatRanking(&buf, sampleRanking()))
	assert.Contains(t, buf.String(), "/src/app.ts:2")
	assert.Contains(t, buf.String(), "(1 passed, 1 failed)")
}
