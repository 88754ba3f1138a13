package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sourcemap/sourcemap"
	lru "github.com/hashicorp/golang-lru/v2"

	m "github.com/mouse-blink/suspect/internal/model"
)

// DefaultSourceMapCacheSize bounds the number of parsed source maps kept in memory.
const DefaultSourceMapCacheSize = 128

const sourceMapExt = ".map"

// ErrNoSourceMap is returned when a generated file has no companion source map.
var ErrNoSourceMap = errors.New("no source map")

// SourceMapStore remaps coverage from generated positions back to the
// original sources.
type SourceMapStore interface {
	Transform(ctx context.Context, coverage m.CoverageMap) (m.CoverageMap, error)
}

// NopSourceMapStore returns coverage unchanged (deep-copied).
type NopSourceMapStore struct{}

// Transform copies coverage without remapping it.
func (NopSourceMapStore) Transform(ctx context.Context, coverage m.CoverageMap) (m.CoverageMap, error) {
	out := make(m.CoverageMap, len(coverage))

	for path, fc := range coverage {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out[path] = fc.Clone()
	}

	return out, nil
}

// LocalSourceMapStore looks for "<file>.map" next to every covered file and
// remaps statement, function and branch ranges through it.
type LocalSourceMapStore struct {
	fs     SourceFSAdapter
	cache  *lru.Cache[m.Path, *sourcemap.Consumer]
	logger *slog.Logger
}

// NewLocalSourceMapStore builds a store whose parsed maps live in an LRU of
// the given size. A nil logger discards output.
func NewLocalSourceMapStore(fs SourceFSAdapter, cacheSize int, logger *slog.Logger) (*LocalSourceMapStore, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultSourceMapCacheSize
	}

	cache, err := lru.New[m.Path, *sourcemap.Consumer](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create source map cache: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &LocalSourceMapStore{fs: fs, cache: cache, logger: logger}, nil
}

// Transform remaps every file of coverage. Files without a source map pass
// through unchanged; files whose map cannot be parsed degrade to nil.
func (s *LocalSourceMapStore) Transform(ctx context.Context, coverage m.CoverageMap) (m.CoverageMap, error) {
	out := make(m.CoverageMap, len(coverage))

	paths := make([]m.Path, 0, len(coverage))
	for path := range coverage {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fc := coverage[path]
		if fc == nil {
			if _, exists := out[path]; !exists {
				out[path] = nil
			}

			continue
		}

		consumer, err := s.consumer(path)
		if errors.Is(err, ErrNoSourceMap) {
			appendCoverage(out, path, fc.Clone())
			continue
		}

		if err != nil {
			s.logger.Warn("source map unusable", "file", path, "err", err)

			if _, exists := out[path]; !exists {
				out[path] = nil
			}

			continue
		}

		for source, remapped := range s.remap(consumer, fc, s.fs.Dir(path)) {
			appendCoverage(out, source, remapped)
		}
	}

	return out, nil
}

// Purge drops every cached source map.
func (s *LocalSourceMapStore) Purge() {
	s.cache.Purge()
}

func (s *LocalSourceMapStore) consumer(path m.Path) (*sourcemap.Consumer, error) {
	mapPath := m.Path(string(path) + sourceMapExt)

	if consumer, ok := s.cache.Get(mapPath); ok {
		if consumer == nil {
			return nil, ErrNoSourceMap
		}

		return consumer, nil
	}

	if _, err := s.fs.FileInfo(mapPath); err != nil {
		s.cache.Add(mapPath, nil)
		return nil, ErrNoSourceMap
	}

	data, err := s.fs.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source map %s: %w", mapPath, err)
	}

	consumer, err := sourcemap.Parse(string(mapPath), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source map %s: %w", mapPath, err)
	}

	s.cache.Add(mapPath, consumer)
	s.logger.Debug("source map loaded", "map", mapPath)

	return consumer, nil
}

type mappedRange struct {
	source m.Path
	rng    m.Range
}

func (s *LocalSourceMapStore) remap(consumer *sourcemap.Consumer, fc *m.FileCoverage, mapDir m.Path) map[m.Path]*m.FileCoverage {
	out := make(map[m.Path]*m.FileCoverage)
	target := func(source m.Path) *m.FileCoverage {
		if out[source] == nil {
			out[source] = m.NewFileCoverage(source)
		}

		return out[source]
	}

	lookup := func(r m.Range) (mappedRange, bool) {
		return s.mapRange(consumer, r, mapDir)
	}

	for id, loc := range fc.StatementMap {
		count, ok := fc.S[id]
		if !ok {
			continue
		}

		mapped, ok := lookup(loc)
		if !ok {
			continue
		}

		dst := target(mapped.source)
		dst.StatementMap[id] = mapped.rng
		dst.S[id] = count
	}

	for id, fn := range fc.FnMap {
		count, ok := fc.F[id]
		if !ok {
			continue
		}

		decl, declOK := lookup(fn.Decl)
		loc, locOK := lookup(fn.Loc)

		var (
			source   m.Path
			mappedFn m.FunctionMapping
		)

		switch {
		case declOK:
			source = decl.source
			mappedFn = m.FunctionMapping{Name: fn.Name, Decl: decl.rng, Line: decl.rng.Start.Line}
		case locOK:
			// Unmappable declaration: only the body's first line stands in for it.
			source = loc.source
			mappedFn = m.FunctionMapping{Name: fn.Name, Line: loc.rng.Start.Line}
		default:
			continue
		}

		if locOK && loc.source == source {
			mappedFn.Loc = loc.rng
		}

		dst := target(source)
		dst.FnMap[id] = mappedFn
		dst.F[id] = count
	}

	for id, branch := range fc.BranchMap {
		hits, ok := fc.B[id]
		if !ok {
			continue
		}

		loc := branch.Loc
		if loc.IsZero() && len(branch.Locations) > 0 {
			loc = branch.Locations[0]
		}

		mapped, ok := lookup(loc)
		if !ok {
			continue
		}

		locations := make([]m.Range, len(branch.Locations))
		for i, l := range branch.Locations {
			ml, ok := lookup(l)
			if !ok || ml.source != mapped.source {
				locations[i] = mapped.rng
				continue
			}

			locations[i] = ml.rng
		}

		dst := target(mapped.source)
		dst.BranchMap[id] = m.BranchMapping{
			Type:      branch.Type,
			Line:      mapped.rng.Start.Line,
			Loc:       mapped.rng,
			Locations: locations,
		}
		dst.B[id] = append([]int(nil), hits...)
	}

	return out
}

// mapRange maps both ends of r. An end that cannot be mapped collapses onto
// the start; ends that land in different sources drop the range.
func (s *LocalSourceMapStore) mapRange(consumer *sourcemap.Consumer, r m.Range, mapDir m.Path) (mappedRange, bool) {
	if r.IsZero() {
		return mappedRange{}, false
	}

	startSrc, _, startLine, startCol, ok := consumer.Source(r.Start.Line, r.Start.Column)
	if !ok || startLine <= 0 {
		return mappedRange{}, false
	}

	end := m.Position{Line: startLine, Column: startCol}

	endSrc, _, endLine, endCol, ok := consumer.Source(r.End.Line, r.End.Column)
	if ok && endLine > 0 {
		if endSrc != startSrc {
			return mappedRange{}, false
		}

		end = m.Position{Line: endLine, Column: endCol}
	}

	return mappedRange{
		source: s.resolveSource(startSrc, mapDir),
		rng: m.Range{
			Start: m.Position{Line: startLine, Column: startCol},
			End:   end,
		},
	}, true
}

func (s *LocalSourceMapStore) resolveSource(source string, mapDir m.Path) m.Path {
	source = strings.TrimPrefix(source, "file://")
	if filepath.IsAbs(source) {
		return m.Path(filepath.Clean(source))
	}

	return s.fs.JoinPath(string(mapDir), source)
}

// appendCoverage adds src into dst[path], re-keying entries that would
// collide with ones already present.
func appendCoverage(dst m.CoverageMap, path m.Path, src *m.FileCoverage) {
	existing := dst[path]
	if existing == nil {
		src.Path = path
		dst[path] = src

		return
	}

	next := func(used func(string) bool, id string) string {
		if !used(id) {
			return id
		}

		for n := 0; ; n++ {
			candidate := id + "_" + strconv.Itoa(n)
			if !used(candidate) {
				return candidate
			}
		}
	}

	for id, loc := range src.StatementMap {
		key := next(func(k string) bool { _, ok := existing.StatementMap[k]; return ok }, id)
		existing.StatementMap[key] = loc
		existing.S[key] = src.S[id]
	}

	for id, fn := range src.FnMap {
		key := next(func(k string) bool { _, ok := existing.FnMap[k]; return ok }, id)
		existing.FnMap[key] = fn
		existing.F[key] = src.F[id]
	}

	for id, branch := range src.BranchMap {
		key := next(func(k string) bool { _, ok := existing.BranchMap[k]; return ok }, id)
		existing.BranchMap[key] = branch
		existing.B[key] = src.B[id]
	}
}
