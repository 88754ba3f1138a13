package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Generated lines 1, 2 and 3 map to original lines 3, 4 and 5. Lines past 3
// have no mapping.
const sampleSourceMap = `{"version":3,"file":"app.js","sources":["../src/app.ts"],"names":[],"mappings":"AAEA;AACA;AACA"}`

func rangeOf(startLine, startCol, endLine, endCol int) m.Range {
	return m.Range{
		Start: m.Position{Line: startLine, Column: startCol},
		End:   m.Position{Line: endLine, Column: endCol},
	}
}

func generatedCoverage(path m.Path) *m.FileCoverage {
	fc := m.NewFileCoverage(path)
	fc.StatementMap["0"] = rangeOf(1, 0, 1, 10)
	fc.S["0"] = 2
	fc.StatementMap["1"] = rangeOf(2, 0, 2, 4)
	fc.S["1"] = 0
	fc.StatementMap["2"] = rangeOf(7, 0, 7, 4)
	fc.S["2"] = 1
	fc.FnMap["0"] = m.FunctionMapping{Name: "run", Decl: rangeOf(1, 0, 1, 3), Loc: rangeOf(1, 0, 2, 5), Line: 1}
	fc.F["0"] = 1
	fc.BranchMap["0"] = m.BranchMapping{Type: "if", Line: 2, Loc: rangeOf(2, 0, 2, 4), Locations: []m.Range{rangeOf(2, 0, 2, 4), rangeOf(9, 0, 9, 1)}}
	fc.B["0"] = []int{1, 0}

	return fc
}

func newTestSourceMapStore(t *testing.T) *LocalSourceMapStore {
	t.Helper()

	store, err := NewLocalSourceMapStore(NewLocalSourceFSAdapter(), 4, nil)
	require.NoError(t, err)

	return store
}

func TestLocalSourceMapStore_Remaps(t *testing.T) {
	dir := t.TempDir()
	generated := m.Path(filepath.Join(dir, "dist", "app.js"))
	original := m.Path(filepath.Join(dir, "src", "app.ts"))
	writeTestFile(t, string(generated)+".map", sampleSourceMap)

	store := newTestSourceMapStore(t)

	out, err := store.Transform(context.Background(), m.CoverageMap{generated: generatedCoverage(generated)})
	require.NoError(t, err)

	require.Contains(t, out, original)
	assert.NotContains(t, out, generated)

	fc := out[original]
	assert.Equal(t, original, fc.Path)
	assert.Equal(t, 3, fc.StatementMap["0"].Start.Line)
	assert.Equal(t, 2, fc.S["0"])
	assert.Equal(t, 4, fc.StatementMap["1"].Start.Line)
	assert.NotContains(t, fc.StatementMap, "2", "unmappable statements are dropped")

	fn := fc.FnMap["0"]
	assert.Equal(t, rangeOf(3, 0, 3, 0), fn.Decl)
	assert.Equal(t, 3, fn.Loc.Start.Line)
	assert.Equal(t, 4, fn.Loc.End.Line)
	assert.Equal(t, 3, fn.Line)

	branch := fc.BranchMap["0"]
	assert.Equal(t, 4, branch.Line)
	require.Len(t, branch.Locations, 2)
	assert.Equal(t, branch.Loc, branch.Locations[1], "unmappable locations fall back to the branch range")
	assert.Equal(t, []int{1, 0}, fc.B["0"])

	assert.Equal(t, map[int]int{3: 2, 4: 0}, fc.LineHits())
}

func TestLocalSourceMapStore_UnmappableDeclUsesBodyStart(t *testing.T) {
	dir := t.TempDir()
	generated := m.Path(filepath.Join(dir, "dist", "app.js"))
	original := m.Path(filepath.Join(dir, "src", "app.ts"))
	writeTestFile(t, string(generated)+".map", sampleSourceMap)

	in := m.NewFileCoverage(generated)
	in.FnMap["0"] = m.FunctionMapping{Name: "run", Decl: rangeOf(7, 0, 7, 3), Loc: rangeOf(1, 0, 2, 5), Line: 7}
	in.F["0"] = 1

	out, err := newTestSourceMapStore(t).Transform(context.Background(), m.CoverageMap{generated: in})
	require.NoError(t, err)
	require.Contains(t, out, original)

	fn := out[original].FnMap["0"]
	assert.True(t, fn.Decl.IsZero())
	assert.Equal(t, 3, fn.Line)
	assert.Equal(t, 4, fn.Loc.End.Line)
	assert.Equal(t, []int{1}, out[original].FunctionsAt(3))
	assert.Empty(t, out[original].FunctionsAt(4))
}

func TestLocalSourceMapStore_NoMapPassesThrough(t *testing.T) {
	path := m.Path(filepath.Join(t.TempDir(), "plain.ts"))
	in := generatedCoverage(path)

	store := newTestSourceMapStore(t)

	out, err := store.Transform(context.Background(), m.CoverageMap{path: in, "nil.ts": nil})
	require.NoError(t, err)

	assert.Equal(t, in, out[path])
	assert.NotSame(t, in, out[path])
	assert.Contains(t, out, m.Path("nil.ts"))
	assert.Nil(t, out["nil.ts"])

	// A map that appears later is ignored until the cache is purged.
	writeTestFile(t, string(path)+".map", sampleSourceMap)

	out, err = store.Transform(context.Background(), m.CoverageMap{path: in})
	require.NoError(t, err)
	assert.Contains(t, out, path)

	store.Purge()

	out, err = store.Transform(context.Background(), m.CoverageMap{path: in})
	require.NoError(t, err)
	assert.NotContains(t, out, path)
}

func TestLocalSourceMapStore_BrokenMapDegrades(t *testing.T) {
	path := m.Path(filepath.Join(t.TempDir(), "app.js"))
	writeTestFile(t, string(path)+".map", "{not json")

	out, err := newTestSourceMapStore(t).Transform(context.Background(), m.CoverageMap{path: generatedCoverage(path)})
	require.NoError(t, err)

	assert.Contains(t, out, path)
	assert.Nil(t, out[path])
}

func TestLocalSourceMapStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSourceMapStore(t).Transform(ctx, m.CoverageMap{"a.ts": m.NewFileCoverage("a.ts")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNopSourceMapStore(t *testing.T) {
	in := generatedCoverage("a.ts")

	out, err := NopSourceMapStore{}.Transform(context.Background(), m.CoverageMap{"a.ts": in})
	require.NoError(t, err)

	assert.Equal(t, in, out["a.ts"])
	assert.NotSame(t, in, out["a.ts"])
}

func TestAppendCoverage_RekeysCollisions(t *testing.T) {
	dst := m.CoverageMap{}

	first := m.NewFileCoverage("x")
	first.StatementMap["0"] = rangeOf(1, 0, 1, 1)
	first.S["0"] = 1

	second := m.NewFileCoverage("y")
	second.StatementMap["0"] = rangeOf(5, 0, 5, 1)
	second.S["0"] = 0

	appendCoverage(dst, "out.ts", first)
	appendCoverage(dst, "out.ts", second)

	fc := dst["out.ts"]
	assert.Equal(t, m.Path("out.ts"), fc.Path)
	assert.Len(t, fc.StatementMap, 2)
	assert.Equal(t, 0, fc.S["0_0"])
	assert.Equal(t, 5, fc.StatementMap["0_0"].Start.Line)
}
