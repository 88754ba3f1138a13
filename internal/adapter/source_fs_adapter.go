// Package adapter contains infrastructure adapters for the suspect CLI.
package adapter

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	m "github.com/mouse-blink/suspect/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when reading sources, manifests and source maps. It intentionally
// hides direct `os` access so the workflow logic can be tested without touching
// the disk.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// ReadLines loads a text file split into lines, without line terminators.
	ReadLines(path m.Path) ([]string, error)

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish between files and directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Abs resolves a path against the working directory, expanding ~.
	Abs(path m.Path) (m.Path, error)

	// Dir returns all but the last element of path.
	Dir(path m.Path) m.Path

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter backs SourceFSAdapter with the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != rootStr {
			if !recursive || skipDir(info.Name()) {
				return filepath.SkipDir
			}
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - paths come from the user's own manifests
	return os.ReadFile(string(path))
}

// ReadLines loads a text file and splits it into lines.
func (a *LocalSourceFSAdapter) ReadLines(path m.Path) ([]string, error) {
	data, err := a.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to split %s into lines: %w", path, err)
	}

	return lines, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Abs resolves path to an absolute, cleaned path.
func (a *LocalSourceFSAdapter) Abs(path m.Path) (m.Path, error) {
	p := string(path)

	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		suffix := strings.TrimPrefix(p, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		p = filepath.Join(home, suffix)
	}

	if p == "" {
		p = "."
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// Dir returns the directory containing path.
func (a *LocalSourceFSAdapter) Dir(path m.Path) m.Path {
	return m.Path(filepath.Dir(string(path)))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

func skipDir(name string) bool {
	return name == ".git" || name == "vendor" || name == "node_modules"
}

// parseRootPath splits a Go-style "dir/..." pattern into its root and a recursive flag.
func parseRootPath(rootStr string) (path string, recursive bool) {
	if rootStr == "..." {
		return ".", true
	}

	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}
