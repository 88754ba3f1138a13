package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/suspect/internal/model"
)

// RankingStore persists and retrieves exported suspiciousness rankings.
type RankingStore interface {
	SaveRanking(path m.Path, report m.RankingReport) error
	LoadRanking(path m.Path) (m.RankingReport, error)
}

// LocalRankingStore writes rankings as YAML files.
type LocalRankingStore struct{}

// NewRankingStore constructs a RankingStore implementation.
func NewRankingStore() RankingStore {
	return &LocalRankingStore{}
}

// SaveRanking writes report to path, creating parent directories as needed.
func (rs *LocalRankingStore) SaveRanking(path m.Path, report m.RankingReport) error {
	if path == "" {
		return fmt.Errorf("ranking path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("failed to create ranking directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode ranking: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write ranking %s: %w", path, err)
	}

	return nil
}

// LoadRanking reads a ranking previously written by SaveRanking.
func (rs *LocalRankingStore) LoadRanking(path m.Path) (m.RankingReport, error) {
	// #nosec G304 - path is chosen by the user
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.RankingReport{}, fmt.Errorf("failed to read ranking %s: %w", path, err)
	}

	var report m.RankingReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.RankingReport{}, fmt.Errorf("failed to parse ranking %s: %w", path, err)
	}

	return report, nil
}
