// Package config loads suspect's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the suspect configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the suspect configuration directory.
const ConfigDirName = ".suspect"

// Config holds all suspect configuration.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Output  OutputConfig  `yaml:"output"`
}

// ScoringConfig selects the classification and scoring policies.
type ScoringConfig struct {
	Formula         string `yaml:"formula"`
	ZeroDenominator string `yaml:"zero_denominator"`
	NoCoverageInfo  string `yaml:"no_coverage_info"`
	Registration    string `yaml:"registration"`
}

// IngestConfig tunes how run manifests are read.
type IngestConfig struct {
	Parallel       int `yaml:"parallel"`
	SourceMapCache int `yaml:"source_map_cache"`
}

// OutputConfig holds configuration for output formatting.
type OutputConfig struct {
	Format string `yaml:"format"`
	// Top limits ranking length; a negative value keeps every line.
	Top int `yaml:"top"`
}

// ErrConfigNotFound is returned when no config directory can be found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .suspect/config.yaml, searching upwards from
// workDir. Without a config file the defaults are returned.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path, merges it over the
// defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	// #nosec G304 - config path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .suspect directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)

		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}

		currentDir = parentDir
	}
}

// Merge fills every zero field of loaded from defaults.
func Merge(loaded, defaults *Config) *Config {
	if loaded == nil {
		return defaults
	}

	out := *loaded

	if out.Scoring.Formula == "" {
		out.Scoring.Formula = defaults.Scoring.Formula
	}

	if out.Scoring.ZeroDenominator == "" {
		out.Scoring.ZeroDenominator = defaults.Scoring.ZeroDenominator
	}

	if out.Scoring.NoCoverageInfo == "" {
		out.Scoring.NoCoverageInfo = defaults.Scoring.NoCoverageInfo
	}

	if out.Scoring.Registration == "" {
		out.Scoring.Registration = defaults.Scoring.Registration
	}

	if out.Ingest.Parallel == 0 {
		out.Ingest.Parallel = defaults.Ingest.Parallel
	}

	if out.Ingest.SourceMapCache == 0 {
		out.Ingest.SourceMapCache = defaults.Ingest.SourceMapCache
	}

	if out.Output.Format == "" {
		out.Output.Format = defaults.Output.Format
	}

	if out.Output.Top == 0 {
		out.Output.Top = defaults.Output.Top
	}

	return &out
}

// Validate checks every enumerated value and numeric bound.
func Validate(cfg *Config) error {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"scoring.formula", cfg.Scoring.Formula, []string{"tarantula", "ochiai"}},
		{"scoring.zero_denominator", cfg.Scoring.ZeroDenominator, []string{"zero-ratio", "undefined"}},
		{"scoring.no_coverage_info", cfg.Scoring.NoCoverageInfo, []string{"uncovered", "partially-covered", "covered"}},
		{"scoring.registration", cfg.Scoring.Registration, []string{"repeat", "first"}},
		{"output.format", cfg.Output.Format, []string{"table", "json", "heatmap"}},
	}

	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalidConfig, c.field, c.allowed, c.value)
		}
	}

	if cfg.Ingest.Parallel < 1 {
		return fmt.Errorf("%w: ingest.parallel must be at least 1, got %d", ErrInvalidConfig, cfg.Ingest.Parallel)
	}

	if cfg.Ingest.SourceMapCache < 1 {
		return fmt.Errorf("%w: ingest.source_map_cache must be at least 1, got %d", ErrInvalidConfig, cfg.Ingest.SourceMapCache)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}

	return false
}
