package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/suspect/internal/model"
)

// ErrInvalidManifest is returned when a run manifest lacks required fields.
var ErrInvalidManifest = errors.New("invalid run manifest")

var manifestSuffixes = []string{".run.yaml", ".run.yml", ".run.json"}

// CoverageReader loads run manifests and the coverage files they point at.
type CoverageReader interface {
	// ReadManifest decodes a YAML or JSON manifest. A relative coverage path
	// is resolved against the manifest's directory.
	ReadManifest(path m.Path) (m.RunManifest, error)

	// ReadCoverage decodes a per-file coverage JSON document. Entries that do
	// not decode become nil instead of failing the whole document.
	ReadCoverage(path m.Path) (m.CoverageMap, error)

	// FindManifests expands files, directories and "dir/..." patterns into a
	// sorted, de-duplicated list of manifest paths.
	FindManifests(roots []m.Path) ([]m.Path, error)
}

// LocalCoverageReader reads manifests and coverage through a SourceFSAdapter.
type LocalCoverageReader struct {
	fs SourceFSAdapter
}

// NewLocalCoverageReader constructs a reader on top of the given filesystem adapter.
func NewLocalCoverageReader(fs SourceFSAdapter) *LocalCoverageReader {
	return &LocalCoverageReader{fs: fs}
}

// IsManifest reports whether path looks like a run manifest.
func IsManifest(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range manifestSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	return false
}

// ReadManifest loads a single run manifest.
func (r *LocalCoverageReader) ReadManifest(path m.Path) (m.RunManifest, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return m.RunManifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest m.RunManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return m.RunManifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if strings.TrimSpace(manifest.Pattern) == "" {
		return m.RunManifest{}, fmt.Errorf("%w: %s has no pattern", ErrInvalidManifest, path)
	}

	if manifest.Coverage != "" && !filepath.IsAbs(string(manifest.Coverage)) {
		manifest.Coverage = r.fs.JoinPath(string(r.fs.Dir(path)), string(manifest.Coverage))
	}

	manifest.Source = path

	return manifest, nil
}

// ReadCoverage loads a coverage document keyed by file path.
func (r *LocalCoverageReader) ReadCoverage(path m.Path) (m.CoverageMap, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse coverage %s: %w", path, err)
	}

	base := string(r.fs.Dir(path))
	coverage := make(m.CoverageMap, len(raw))

	for key, entry := range raw {
		filePath := m.Path(key)
		if !filepath.IsAbs(key) {
			filePath = r.fs.JoinPath(base, key)
		}

		var fc m.FileCoverage
		if err := json.Unmarshal(entry, &fc); err != nil {
			coverage[filePath] = nil
			continue
		}

		fc.Path = filePath
		coverage[filePath] = &fc
	}

	return coverage, nil
}

// FindManifests expands roots into manifest files.
func (r *LocalCoverageReader) FindManifests(roots []m.Path) ([]m.Path, error) {
	seen := make(map[m.Path]struct{})

	var manifests []m.Path

	add := func(p m.Path) {
		if _, ok := seen[p]; ok {
			return
		}

		seen[p] = struct{}{}
		manifests = append(manifests, p)
	}

	for _, root := range roots {
		rootStr, recursive := parseRootPath(string(root))

		abs, err := r.fs.Abs(m.Path(rootStr))
		if err != nil {
			return nil, err
		}

		info, err := r.fs.FileInfo(abs)
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			add(abs)
			continue
		}

		err = r.fs.Walk(abs, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || !IsManifest(path) {
				return nil
			}

			add(m.Path(path))

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(manifests, func(i, j int) bool { return manifests[i] < manifests[j] })

	return manifests, nil
}
