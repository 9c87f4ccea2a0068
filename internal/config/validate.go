package config

import (
	"fmt"
	"math"
)

// Validate ensures the configuration describes a usable policy. Violations
// are fatal at startup; values are never silently clamped.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateQuality(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	m := c.Matching
	weights := []struct {
		name  string
		value float64
	}{
		{"matching.edit_distance_weight", m.EditDistanceWeight},
		{"matching.token_overlap_weight", m.TokenOverlapWeight},
		{"matching.jaro_winkler_weight", m.JaroWinklerWeight},
		{"matching.institution_bonus", m.InstitutionBonus},
		{"matching.institution_agreement", m.InstitutionAgreement},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", w.name, w.value)
		}
	}
	sum := m.EditDistanceWeight + m.TokenOverlapWeight + m.JaroWinklerWeight + m.InstitutionBonus
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("matching weights must sum to 1, got %v", sum)
	}
	if !(0 < m.LowThreshold && m.LowThreshold < m.MediumThreshold && m.MediumThreshold < m.HighThreshold && m.HighThreshold <= 1) {
		return fmt.Errorf("matching thresholds must satisfy 0 < low < medium < high <= 1, got %v/%v/%v",
			m.LowThreshold, m.MediumThreshold, m.HighThreshold)
	}
	if m.YearTolerance < 0 {
		return fmt.Errorf("matching.year_tolerance must not be negative, got %d", m.YearTolerance)
	}
	if m.Workers < 0 {
		return fmt.Errorf("matching.workers must not be negative, got %d", m.Workers)
	}
	return nil
}

func (c *Config) validateQuality() error {
	q := c.Quality
	if !(0 < q.ModerateThreshold && q.ModerateThreshold < q.GoodThreshold && q.GoodThreshold <= 1) {
		return fmt.Errorf("quality thresholds must satisfy 0 < moderate < good <= 1, got %v/%v",
			q.ModerateThreshold, q.GoodThreshold)
	}
	if !(0 < q.MediumCompleteness && q.MediumCompleteness < q.HighCompleteness && q.HighCompleteness <= 1) {
		return fmt.Errorf("quality confidence cut points must satisfy 0 < medium < high <= 1, got %v/%v",
			q.MediumCompleteness, q.HighCompleteness)
	}
	sum := q.IdentificationWeight + q.StressWeight + q.AgronomicWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("quality group weights must sum to 1, got %v", sum)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
