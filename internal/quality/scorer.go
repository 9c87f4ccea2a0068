package quality

import (
	"fmt"
	"math"

	"seedlink/internal/record"
	"seedlink/internal/services"
)

// Policy holds the tunable quality thresholds. All cut points must be
// ordered; violations are configuration errors, never clamped.
type Policy struct {
	// Good and Moderate are the completeness cut points for the quality
	// flag: >= Good is GOOD, >= Moderate is MODERATE, below is POOR.
	Good     float64
	Moderate float64
	// HighCompleteness is the completeness a two-source record needs for
	// HIGH confidence; MediumCompleteness is the single-source floor for
	// MEDIUM confidence.
	HighCompleteness   float64
	MediumCompleteness float64
}

// DefaultPolicy returns the standard grading thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Good:               0.85,
		Moderate:           0.60,
		HighCompleteness:   0.90,
		MediumCompleteness: 0.70,
	}
}

// Scorer computes data-quality grades under a fixed policy and field
// grouping.
type Scorer struct {
	groups []record.FieldGroup
	policy Policy
}

// NewScorer validates the grouping and policy. Group weights must sum to 1.
func NewScorer(groups []record.FieldGroup, policy Policy) (*Scorer, error) {
	if len(groups) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "quality", "groups", "at least one field group is required", nil)
	}
	var sum float64
	for _, g := range groups {
		if g.Weight < 0 || g.Weight > 1 {
			return nil, services.Wrap(services.ErrConfiguration, "quality", "groups",
				fmt.Sprintf("group %s weight must be within [0,1], got %v", g.Name, g.Weight), nil)
		}
		if len(g.Fields) == 0 {
			return nil, services.Wrap(services.ErrConfiguration, "quality", "groups",
				fmt.Sprintf("group %s has no fields", g.Name), nil)
		}
		sum += g.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, services.Wrap(services.ErrConfiguration, "quality", "groups",
			fmt.Sprintf("group weights must sum to 1, got %v", sum), nil)
	}
	if !(0 < policy.Moderate && policy.Moderate < policy.Good && policy.Good <= 1) {
		return nil, services.Wrap(services.ErrConfiguration, "quality", "policy",
			fmt.Sprintf("quality cut points must satisfy 0 < moderate < good <= 1, got %v/%v", policy.Moderate, policy.Good), nil)
	}
	if !(0 < policy.MediumCompleteness && policy.MediumCompleteness < policy.HighCompleteness && policy.HighCompleteness <= 1) {
		return nil, services.Wrap(services.ErrConfiguration, "quality", "policy",
			fmt.Sprintf("confidence cut points must satisfy 0 < medium < high <= 1, got %v/%v", policy.MediumCompleteness, policy.HighCompleteness), nil)
	}
	return &Scorer{groups: groups, policy: policy}, nil
}

// Score grades one unified record. Completeness is the weighted sum of each
// group's filled-field fraction; the confidence level additionally requires
// two independent sources for HIGH.
func (s *Scorer) Score(u *record.UnifiedVariety) (float64, record.QualityFlag, record.ConfidenceLevel) {
	completeness := s.completeness(u)
	flag := s.flagFor(completeness)
	confidence := s.confidenceFor(completeness, u.SourceCount())
	return completeness, flag, confidence
}

// Apply grades the record and writes the results onto it.
func (s *Scorer) Apply(u *record.UnifiedVariety) {
	u.Completeness, u.QualityFlag, u.Confidence = s.Score(u)
}

func (s *Scorer) completeness(u *record.UnifiedVariety) float64 {
	var total float64
	for _, group := range s.groups {
		filled := 0
		for _, field := range group.Fields {
			if u.Field(field) != "" {
				filled++
			}
		}
		total += group.Weight * float64(filled) / float64(len(group.Fields))
	}
	return total
}

func (s *Scorer) flagFor(completeness float64) record.QualityFlag {
	switch {
	case completeness >= s.policy.Good:
		return record.QualityGood
	case completeness >= s.policy.Moderate:
		return record.QualityModerate
	default:
		return record.QualityPoor
	}
}

func (s *Scorer) confidenceFor(completeness float64, sources int) record.ConfidenceLevel {
	switch {
	case completeness >= s.policy.HighCompleteness && sources >= 2:
		return record.ConfidenceHigh
	case completeness >= s.policy.MediumCompleteness || sources >= 2:
		return record.ConfidenceMedium
	default:
		return record.ConfidenceLow
	}
}
