package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/mouse-blink/suspect/internal/model"
)

func TestParseIgnoreDirective(t *testing.T) {
	tests := []struct {
		text      string
		directive string
		leading   bool
		ok        bool
	}{
		{"// suspect:ignore", ignoreDirective, true, true},
		{"  //suspect:ignore", ignoreDirective, true, true},
		{"x := risky() // suspect:ignore", ignoreDirective, false, true},
		{"/* suspect:ignore */", ignoreDirective, true, true},
		{"# suspect:ignore-file", ignoreFileDirective, true, true},
		{"value = 1 # suspect:ignore", ignoreDirective, false, true},
		{"i--", "", false, false},
		{`url := "http://example.com"`, "", false, false},
		{`url := "http://example.com" // suspect:ignore`, ignoreDirective, false, true},
		{`sep := "--" -- suspect:ignore`, ignoreDirective, false, true},
		{`# see http://x # suspect:ignore-file`, ignoreFileDirective, false, true},
		{"// unrelated comment", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			directive, leading, ok := parseIgnoreDirective(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.directive, directive)
			assert.Equal(t, tt.leading, leading)
		})
	}
}

func TestBuildIgnoreIndex(t *testing.T) {
	source := []string{
		"function a() {",
		"  // suspect:ignore",
		"  log(debug)",
		"  retry() // suspect:ignore",
		`  fetch("https://api") // suspect:ignore`,
		"}",
	}

	ix := buildIgnoreIndex(source)

	assert.False(t, ix.file)
	assert.True(t, ix.ignored(3), "a directive on its own line covers the next line")
	assert.True(t, ix.ignored(4), "a trailing directive covers its own line")
	assert.True(t, ix.ignored(5), "a URL before the comment does not hide the directive")
	assert.False(t, ix.ignored(1))
	assert.False(t, ix.ignored(2))
	assert.False(t, ix.ignored(6))
}

func TestBuildIgnoreIndex_File(t *testing.T) {
	ix := buildIgnoreIndex([]string{"// suspect:ignore-file", "code()"})

	assert.True(t, ix.file)
	assert.True(t, ix.ignored(2))
}

func TestFilterIgnored(t *testing.T) {
	ranked := []m.RankedLine{
		{Path: "a.ts", Record: m.LineCoverageRecord{Line: 1}},
		{Path: "a.ts", Record: m.LineCoverageRecord{Line: 3}},
	}

	kept := filterIgnored(ranked, ignoreIndex{lines: map[int]struct{}{3: {}}})
	assert.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].Record.Line)

	assert.Equal(t, ranked, filterIgnored(ranked, ignoreIndex{}))
	assert.Empty(t, filterIgnored(ranked, ignoreIndex{file: true}))
}
