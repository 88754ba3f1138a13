package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

type fakeSourceMaps struct {
	err    error
	calls  int
	purges int
}

func (f *fakeSourceMaps) Purge() {
	f.purges++
}

func (f *fakeSourceMaps) Transform(_ context.Context, raw m.CoverageMap) (m.CoverageMap, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	out := make(m.CoverageMap, len(raw))
	for path, fc := range raw {
		out[path] = fc.Clone()
	}

	return out, nil
}

func span(start, end int) m.Range {
	return m.Range{Start: m.Position{Line: start}, End: m.Position{Line: end}}
}

// statementCoverage builds coverage with one statement per line and the given hit counts.
func statementCoverage(path m.Path, hits map[int]int) *m.FileCoverage {
	fc := m.NewFileCoverage(path)

	for line, count := range hits {
		id := string(rune('a' + line))
		fc.StatementMap[id] = span(line, line)
		fc.S[id] = count
	}

	return fc
}

func coverageOf(files ...*m.FileCoverage) m.CoverageMap {
	cm := make(m.CoverageMap, len(files))
	for _, fc := range files {
		cm[fc.Path] = fc
	}

	return cm
}

func TestCoverageStore_ResetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil)

	require.NoError(t, store.Update(ctx, "p1", true, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))
	require.NoError(t, store.Update(ctx, "p1", true, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))

	store.Reset()
	store.Reset()

	assert.Empty(t, store.FileCoverages("a.ts"))
	assert.Empty(t, store.Files())
	assert.Zero(t, store.Patterns())
	_, ok := store.Verdict("p1")
	assert.False(t, ok)
}

func TestCoverageStore_ResetPurgesSourceMaps(t *testing.T) {
	maps := &fakeSourceMaps{}
	store := NewCoverageStore(maps, WithRegistrationPolicy(RegisterOnFirstReport))

	require.NoError(t, store.Update(context.Background(), "p1", false, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))

	store.Reset()

	assert.Equal(t, 1, maps.purges)
	assert.Empty(t, store.Files())
}

func TestCoverageStore_VerdictOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil)

	require.NoError(t, store.Update(ctx, "p1", true, nil))
	require.NoError(t, store.Update(ctx, "p1", false, nil))

	passed, ok := store.Verdict("p1")
	require.True(t, ok)
	assert.False(t, passed)
	assert.Equal(t, 1, store.Patterns())
}

func TestCoverageStore_VerdictWithoutCoverageIsNotPending(t *testing.T) {
	store := NewCoverageStore(nil)

	require.NoError(t, store.Update(context.Background(), "p1", false, m.CoverageMap{}))

	assert.Empty(t, store.Pending())
	assert.Empty(t, store.Files())
}

func TestCoverageStore_RepeatPolicyIndexesOnSecondReport(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil)

	require.NoError(t, store.Update(ctx, "p1", true, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))

	assert.Empty(t, store.FileCoverages("a.ts"), "first report is stored but not indexed")
	assert.Equal(t, []string{"p1"}, store.Pending())

	require.NoError(t, store.Update(ctx, "p1", true, coverageOf(statementCoverage("a.ts", map[int]int{1: 2}))))

	entries := store.FileCoverages("a.ts")
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].Pattern)
	assert.True(t, entries[0].Passed)
	assert.Empty(t, store.Pending())
}

func TestCoverageStore_FirstPolicyIndexesImmediately(t *testing.T) {
	store := NewCoverageStore(nil, WithRegistrationPolicy(RegisterOnFirstReport))

	require.NoError(t, store.Update(context.Background(), "p1", false, coverageOf(
		statementCoverage("a.ts", map[int]int{1: 1}),
		statementCoverage("b.ts", map[int]int{1: 0}),
	)))

	require.Len(t, store.FileCoverages("a.ts"), 1)
	require.Len(t, store.FileCoverages("b.ts"), 1)
	assert.Equal(t, []m.Path{"a.ts", "b.ts"}, store.Files())
	assert.Empty(t, store.Pending())
}

func TestCoverageStore_MergeOverwritesPerFile(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil)

	first := coverageOf(
		statementCoverage("a.ts", map[int]int{1: 1, 2: 1}),
		statementCoverage("b.ts", map[int]int{1: 1}),
	)
	require.NoError(t, store.Update(ctx, "p1", true, first))

	second := coverageOf(statementCoverage("a.ts", map[int]int{3: 1}))
	require.NoError(t, store.Update(ctx, "p1", true, second))

	entries := store.FileCoverages("a.ts")
	require.Len(t, entries, 1)

	hits := entries[0].Coverage.LineHits()
	assert.Equal(t, map[int]int{3: 1}, hits, "later report replaces the file, it is not unioned")

	assert.Empty(t, store.FileCoverages("b.ts"), "b.ts was only in the unindexed first report")

	require.NoError(t, store.Update(ctx, "p1", true, coverageOf(statementCoverage("b.ts", map[int]int{1: 0}))))
	require.Len(t, store.FileCoverages("b.ts"), 1)
}

func TestCoverageStore_IndexOrderAndNoDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil, WithRegistrationPolicy(RegisterOnFirstReport))

	for _, p := range []string{"p2", "p1", "p2"} {
		require.NoError(t, store.Update(ctx, p, true, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))
	}

	entries := store.FileCoverages("a.ts")
	require.Len(t, entries, 2)
	assert.Equal(t, "p2", entries[0].Pattern)
	assert.Equal(t, "p1", entries[1].Pattern)
}

func TestCoverageStore_UnknownFile(t *testing.T) {
	store := NewCoverageStore(nil)

	entries := store.FileCoverages("missing.ts")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Equal(t, m.FileSummary{Path: "missing.ts"}, store.Summary("missing.ts"))
}

func TestCoverageStore_Summary(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil, WithRegistrationPolicy(RegisterOnFirstReport))

	require.NoError(t, store.Update(ctx, "p1", true, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))
	require.NoError(t, store.Update(ctx, "p2", false, coverageOf(statementCoverage("a.ts", map[int]int{1: 1}))))
	require.NoError(t, store.Update(ctx, "p3", false, coverageOf(statementCoverage("a.ts", map[int]int{1: 0}))))

	summary := store.Summary("a.ts")
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 2, summary.Failed)

	// A verdict flip is visible without new coverage.
	require.NoError(t, store.Update(ctx, "p2", true, nil))
	assert.Equal(t, "2 passed, 1 failed", store.Summary("a.ts").String())
}

func TestCoverageStore_TransformFailureKeepsVerdict(t *testing.T) {
	sourceMaps := &fakeSourceMaps{err: errors.New("bad map")}
	store := NewCoverageStore(sourceMaps)

	err := store.Update(context.Background(), "p1", false, coverageOf(statementCoverage("a.ts", map[int]int{1: 1})))
	require.NoError(t, err)

	passed, ok := store.Verdict("p1")
	require.True(t, ok)
	assert.False(t, passed)
	assert.Empty(t, store.Pending())
	assert.Equal(t, 1, sourceMaps.calls)
}

func TestCoverageStore_CancelledTransform(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewCoverageStore(&fakeSourceMaps{err: context.Canceled})

	err := store.Update(ctx, "p1", true, coverageOf(statementCoverage("a.ts", map[int]int{1: 1})))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoverageStore_EmptyCoverageSkipsTransform(t *testing.T) {
	sourceMaps := &fakeSourceMaps{}
	store := NewCoverageStore(sourceMaps)

	require.NoError(t, store.Update(context.Background(), "p1", true, nil))
	assert.Zero(t, sourceMaps.calls)
}

func TestCoverageStore_NilFileEntry(t *testing.T) {
	ctx := context.Background()
	store := NewCoverageStore(nil, WithRegistrationPolicy(RegisterOnFirstReport))

	require.NoError(t, store.Update(ctx, "p1", true, m.CoverageMap{"a.ts": nil}))

	entries := store.FileCoverages("a.ts")
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Coverage)
}

func TestParseRegistrationPolicy(t *testing.T) {
	p, err := ParseRegistrationPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RegisterOnRepeatReport, p)

	p, err = ParseRegistrationPolicy("first")
	require.NoError(t, err)
	assert.Equal(t, RegisterOnFirstReport, p)
	assert.Equal(t, "first", p.String())

	_, err = ParseRegistrationPolicy("never")
	assert.Error(t, err)
}
