package testsupport

import (
	"path/filepath"
	"testing"

	"seedlink/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers overrides the worker pool size on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Workers = n
	}
}

// WithThresholds overrides the tier cut points on the test config.
func WithThresholds(high, medium, low float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.HighThreshold = high
		cfg.Matching.MediumThreshold = medium
		cfg.Matching.LowThreshold = low
	}
}
