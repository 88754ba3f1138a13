package config

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Formula:         "tarantula",
			ZeroDenominator: "zero-ratio",
			NoCoverageInfo:  "uncovered",
			Registration:    "repeat",
		},
		Ingest: IngestConfig{
			Parallel:       4,
			SourceMapCache: 128,
		},
		Output: OutputConfig{
			Format: "table",
			Top:    20,
		},
	}
}
