package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	configDir := filepath.Join(dir, ConfigDirName)
	require.NoError(t, os.MkdirAll(configDir, 0o750))

	path := filepath.Join(configDir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_DefaultsWithoutConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FindsConfigInParent(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "scoring:\n  formula: ochiai\n  registration: first\noutput:\n  top: -1\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := Load(nested)
	require.NoError(t, err)

	assert.Equal(t, "ochiai", cfg.Scoring.Formula)
	assert.Equal(t, "first", cfg.Scoring.Registration)
	assert.Equal(t, -1, cfg.Output.Top)
	assert.Equal(t, "zero-ratio", cfg.Scoring.ZeroDenominator, "unset fields keep defaults")
	assert.Equal(t, 4, cfg.Ingest.Parallel)
}

func TestLoadFromPath(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "scoring: [\n")

		_, err := LoadFromPath(path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "scoring:\n  no_coverage_info: maybe\n")

		_, err := LoadFromPath(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestFindConfigDir(t *testing.T) {
	_, err := FindConfigDir(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)

	root := t.TempDir()
	writeConfig(t, root, "")

	dir, err := FindConfigDir(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigDirName), dir)
}

func TestMerge(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Merge(nil, DefaultConfig()))

	loaded := &Config{Output: OutputConfig{Format: "json"}, Ingest: IngestConfig{Parallel: 8}}
	merged := Merge(loaded, DefaultConfig())

	assert.Equal(t, "json", merged.Output.Format)
	assert.Equal(t, 8, merged.Ingest.Parallel)
	assert.Equal(t, 20, merged.Output.Top)
	assert.Equal(t, "tarantula", merged.Scoring.Formula)
	assert.Empty(t, loaded.Scoring.Formula, "merge does not mutate its input")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"formula", func(c *Config) { c.Scoring.Formula = "dstar" }},
		{"zero denominator", func(c *Config) { c.Scoring.ZeroDenominator = "nan" }},
		{"no coverage info", func(c *Config) { c.Scoring.NoCoverageInfo = "" }},
		{"registration", func(c *Config) { c.Scoring.Registration = "never" }},
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"parallel", func(c *Config) { c.Ingest.Parallel = 0 }},
		{"cache", func(c *Config) { c.Ingest.SourceMapCache = -1 }},
	}

	require.NoError(t, Validate(DefaultConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
		})
	}
}
