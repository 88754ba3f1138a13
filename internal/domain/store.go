package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/mouse-blink/suspect/internal/adapter"
	m "github.com/mouse-blink/suspect/internal/model"
)

// RegistrationPolicy decides when a pattern's files enter the reverse index.
type RegistrationPolicy int

const (
	// RegisterOnRepeatReport indexes a pattern's files only from its second
	// report onwards. The first report is stored but stays invisible to
	// file lookups.
	RegisterOnRepeatReport RegistrationPolicy = iota
	// RegisterOnFirstReport indexes files as soon as a pattern reports them.
	RegisterOnFirstReport
)

func (p RegistrationPolicy) String() string {
	switch p {
	case RegisterOnRepeatReport:
		return "repeat"
	case RegisterOnFirstReport:
		return "first"
	default:
		return fmt.Sprintf("RegistrationPolicy(%d)", int(p))
	}
}

// ParseRegistrationPolicy converts a configuration value into a policy.
func ParseRegistrationPolicy(s string) (RegistrationPolicy, error) {
	switch s {
	case "", "repeat":
		return RegisterOnRepeatReport, nil
	case "first":
		return RegisterOnFirstReport, nil
	default:
		return 0, fmt.Errorf("unknown registration policy %q", s)
	}
}

type purger interface {
	Purge()
}

// FileCoverageSource is the read side of the store the scoring engine needs.
type FileCoverageSource interface {
	FileCoverages(path m.Path) []m.FileCoverageEntry
}

// StoreOption configures a CoverageStore.
type StoreOption func(*CoverageStore)

// WithRegistrationPolicy overrides when files are indexed.
func WithRegistrationPolicy(p RegistrationPolicy) StoreOption {
	return func(s *CoverageStore) {
		s.policy = p
	}
}

// WithStoreLogger sets the logger used for degraded updates.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *CoverageStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// CoverageStore accumulates coverage per test pattern for one session and
// answers which patterns exercised a file.
type CoverageStore struct {
	sourceMaps adapter.SourceMapStore
	policy     RegistrationPolicy
	logger     *slog.Logger

	mu       sync.RWMutex
	verdicts map[string]bool
	coverage map[string]m.CoverageMap
	// index lists patterns per file in the order they were registered.
	index   map[m.Path][]string
	indexed map[m.Path]map[string]struct{}
}

// NewCoverageStore creates an empty store. A nil sourceMaps leaves coverage
// untransformed.
func NewCoverageStore(sourceMaps adapter.SourceMapStore, opts ...StoreOption) *CoverageStore {
	if sourceMaps == nil {
		sourceMaps = adapter.NopSourceMapStore{}
	}

	s := &CoverageStore{
		sourceMaps: sourceMaps,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.clear()

	return s
}

// Update records a test run for pattern. The verdict is always overwritten.
// Coverage is transformed to original-source positions, then stored
// wholesale on the pattern's first report and merged file by file (last run
// wins) on later ones. Update only fails when ctx is cancelled.
func (s *CoverageStore) Update(ctx context.Context, pattern string, passed bool, raw m.CoverageMap) error {
	s.mu.Lock()
	s.verdicts[pattern] = passed
	s.mu.Unlock()

	if len(raw) == 0 {
		return nil
	}

	transformed, err := s.sourceMaps.Transform(ctx, raw)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		s.logger.Warn("coverage transform failed, keeping verdict only", "pattern", pattern, "err", err)

		return nil
	}

	if transformed == nil {
		transformed = m.CoverageMap{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, seen := s.coverage[pattern]
	if !seen {
		s.coverage[pattern] = transformed

		if s.policy == RegisterOnFirstReport {
			for _, path := range sortedPaths(transformed) {
				s.register(path, pattern)
			}
		}

		s.logger.Debug("coverage stored", "pattern", pattern, "files", len(transformed), "indexed", s.policy == RegisterOnFirstReport)

		return nil
	}

	for _, path := range sortedPaths(transformed) {
		stored[path] = transformed[path]
		s.register(path, pattern)
	}

	s.logger.Debug("coverage merged", "pattern", pattern, "files", len(transformed))

	return nil
}

// FileCoverages returns one entry per pattern indexed against path, in
// indexing order. Unknown paths yield an empty slice.
func (s *CoverageStore) FileCoverages(path m.Path) []m.FileCoverageEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := s.index[path]
	entries := make([]m.FileCoverageEntry, 0, len(patterns))

	for _, pattern := range patterns {
		entries = append(entries, m.FileCoverageEntry{
			Coverage: s.coverage[pattern][path],
			Pattern:  pattern,
			Passed:   s.verdicts[pattern],
		})
	}

	return entries
}

// Summary counts passing and failing patterns indexed against path.
func (s *CoverageStore) Summary(path m.Path) m.FileSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := m.FileSummary{Path: path}

	for _, pattern := range s.index[path] {
		if s.verdicts[pattern] {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	return summary
}

// Verdict returns the last reported verdict of pattern.
func (s *CoverageStore) Verdict(pattern string) (passed bool, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	passed, ok = s.verdicts[pattern]

	return passed, ok
}

// Pending lists patterns with stored coverage that no file index mentions yet.
func (s *CoverageStore) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registered := make(map[string]struct{})

	for _, patterns := range s.index {
		for _, p := range patterns {
			registered[p] = struct{}{}
		}
	}

	var pending []string

	for pattern := range s.coverage {
		if _, ok := registered[pattern]; !ok {
			pending = append(pending, pattern)
		}
	}

	sort.Strings(pending)

	return pending
}

// Patterns returns the number of patterns with a recorded verdict.
func (s *CoverageStore) Patterns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.verdicts)
}

// Files lists every indexed file, sorted.
func (s *CoverageStore) Files() []m.Path {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]m.Path, 0, len(s.index))
	for path := range s.index {
		files = append(files, path)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files
}

// Reset discards all patterns, verdicts and indices. Source maps cached by
// the transform are dropped too, so rebuilt maps are read again.
func (s *CoverageStore) Reset() {
	if p, ok := s.sourceMaps.(purger); ok {
		p.Purge()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
}

func (s *CoverageStore) clear() {
	s.verdicts = make(map[string]bool)
	s.coverage = make(map[string]m.CoverageMap)
	s.index = make(map[m.Path][]string)
	s.indexed = make(map[m.Path]map[string]struct{})
}

// register must be called with mu held.
func (s *CoverageStore) register(path m.Path, pattern string) {
	set, ok := s.indexed[path]
	if !ok {
		set = make(map[string]struct{})
		s.indexed[path] = set
	}

	if _, exists := set[pattern]; exists {
		return
	}

	set[pattern] = struct{}{}
	s.index[path] = append(s.index[path], pattern)
}

func sortedPaths(cm m.CoverageMap) []m.Path {
	paths := make([]m.Path, 0, len(cm))
	for path := range cm {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}
