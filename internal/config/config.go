package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Matching contains the linkage policy: how similarity signals combine and
// where the tier cut points sit.
type Matching struct {
	// Weights for the string-similarity signals. Together with
	// institution_bonus they must sum to 1.
	EditDistanceWeight float64 `toml:"edit_distance_weight"`
	TokenOverlapWeight float64 `toml:"token_overlap_weight"`
	JaroWinklerWeight  float64 `toml:"jaro_winkler_weight"`
	InstitutionBonus   float64 `toml:"institution_bonus"`
	// InstitutionAgreement is the minimum graded agreement that earns the
	// bonus.
	InstitutionAgreement float64 `toml:"institution_agreement"`
	// Tier thresholds; must satisfy 0 < low < medium < high <= 1.
	HighThreshold   float64 `toml:"high_threshold"`
	MediumThreshold float64 `toml:"medium_threshold"`
	LowThreshold    float64 `toml:"low_threshold"`
	// YearTolerance is the maximum release-year gap before a medium-tier
	// match is flagged for review.
	YearTolerance int `toml:"year_tolerance"`
	// Workers bounds the per-crop-block worker pool. Zero means one worker
	// per CPU.
	Workers int `toml:"workers"`
}

// Quality contains completeness grading policy.
type Quality struct {
	GoodThreshold      float64 `toml:"good_threshold"`
	ModerateThreshold  float64 `toml:"moderate_threshold"`
	HighCompleteness   float64 `toml:"high_completeness"`
	MediumCompleteness float64 `toml:"medium_completeness"`
	// Group weights over the identification, stress-tolerance, and
	// quality/agronomic field groups. Must sum to 1.
	IdentificationWeight float64 `toml:"identification_weight"`
	StressWeight         float64 `toml:"stress_weight"`
	AgronomicWeight      float64 `toml:"agronomic_weight"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for seedlink.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Matching Matching `toml:"matching"`
	Quality  Quality  `toml:"quality"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/seedlink/config.toml")
}

// SampleConfig returns the annotated sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, normalizes, and validates a configuration file. When
// no file exists the defaults are returned; that is not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("seedlink.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the sample configuration to path, refusing to overwrite
// an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
