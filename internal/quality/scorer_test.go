package quality

import (
	"errors"
	"math"
	"testing"

	"seedlink/internal/record"
	"seedlink/internal/services"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(record.DefaultFieldGroups(), DefaultPolicy())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return s
}

func fullRecord(provenance ...string) *record.UnifiedVariety {
	return &record.UnifiedVariety{
		VarietyName:   "Pusa Basmati 1718",
		CropType:      "Rice",
		Institution:   "IARI Delhi",
		YearOfRelease: 2018,
		Fields: map[string]string{
			record.FieldApprovalStatus:    "Released",
			record.FieldRecommendedStates: "Punjab, Haryana",
			record.FieldStressTolerances:  "Bacterial Blight",
			record.FieldSpecialFeatures:   "Disease resistance",
			record.FieldAgroClimaticZones: "Indo-Gangetic Plains",
			record.FieldQualityTraits:     "Aromatic, Long Grain",
			record.FieldMaturityDays:      "120",
			record.FieldParentLines:       "Pusa 1121 x Local Basmati",
		},
		Provenance: provenance,
	}
}

func TestScoreFullyPopulated(t *testing.T) {
	scorer := newTestScorer(t)
	completeness, flag, confidence := scorer.Score(fullRecord("REG_1", "POR_1"))
	if math.Abs(completeness-1) > 1e-9 {
		t.Errorf("completeness = %v, want 1", completeness)
	}
	if flag != record.QualityGood {
		t.Errorf("flag = %s, want GOOD", flag)
	}
	if confidence != record.ConfidenceHigh {
		t.Errorf("confidence = %s, want HIGH", confidence)
	}
}

func TestScoreSingleSourceNeverHigh(t *testing.T) {
	scorer := newTestScorer(t)
	_, _, confidence := scorer.Score(fullRecord("REG_1"))
	if confidence != record.ConfidenceMedium {
		t.Errorf("confidence = %s, want MEDIUM for a complete single-source record", confidence)
	}
}

func TestScoreMissingInstitutionAndYear(t *testing.T) {
	// All other essential fields filled: the identification group drops to
	// 4/6, pulling completeness to 0.5*4/6 + 0.3 + 0.2 ≈ 0.83 — MODERATE,
	// not GOOD.
	scorer := newTestScorer(t)
	u := fullRecord("REG_1", "POR_1")
	u.Institution = ""
	u.YearOfRelease = 0

	completeness, flag, _ := scorer.Score(u)
	if flag != record.QualityModerate {
		t.Errorf("flag = %s (completeness %v), want MODERATE", flag, completeness)
	}
}

func TestScoreEmptyRecordIsPoor(t *testing.T) {
	scorer := newTestScorer(t)
	u := &record.UnifiedVariety{VarietyName: "x", Provenance: []string{"REG_1"}}
	completeness, flag, confidence := scorer.Score(u)
	if flag != record.QualityPoor {
		t.Errorf("flag = %s (completeness %v), want POOR", flag, completeness)
	}
	if confidence != record.ConfidenceLow {
		t.Errorf("confidence = %s, want LOW", confidence)
	}
}

func TestScoreTwoSourcesLiftConfidence(t *testing.T) {
	scorer := newTestScorer(t)
	u := &record.UnifiedVariety{VarietyName: "x", Provenance: []string{"REG_1", "POR_1"}}
	_, _, confidence := scorer.Score(u)
	if confidence != record.ConfidenceMedium {
		t.Errorf("confidence = %s, want MEDIUM from two sources despite low completeness", confidence)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// Filling a previously-empty field must never decrease completeness.
	scorer := newTestScorer(t)
	u := &record.UnifiedVariety{
		VarietyName: "x",
		Fields:      map[string]string{},
		Provenance:  []string{"REG_1"},
	}
	previous, _, _ := scorer.Score(u)

	fill := []struct {
		set func()
	}{
		{func() { u.CropType = "Rice" }},
		{func() { u.Institution = "IARI" }},
		{func() { u.YearOfRelease = 2018 }},
		{func() { u.Fields[record.FieldApprovalStatus] = "Released" }},
		{func() { u.Fields[record.FieldStressTolerances] = "Drought" }},
		{func() { u.Fields[record.FieldQualityTraits] = "Aromatic" }},
		{func() { u.Fields[record.FieldMaturityDays] = "120" }},
	}
	for i, step := range fill {
		step.set()
		current, _, _ := scorer.Score(u)
		if current < previous {
			t.Fatalf("step %d decreased completeness: %v -> %v", i, previous, current)
		}
		previous = current
	}
}

func TestApplyWritesGrades(t *testing.T) {
	scorer := newTestScorer(t)
	u := fullRecord("REG_1", "POR_1")
	scorer.Apply(u)
	if u.Completeness == 0 || u.QualityFlag == "" || u.Confidence == "" {
		t.Errorf("Apply left grades unset: %+v", u)
	}
}

func TestNewScorerRejectsBadPolicy(t *testing.T) {
	groups := record.DefaultFieldGroups()
	tests := []struct {
		name   string
		groups []record.FieldGroup
		policy Policy
	}{
		{"no groups", nil, DefaultPolicy()},
		{"weights do not sum", []record.FieldGroup{{Name: "a", Weight: 0.5, Fields: []string{"x"}}}, DefaultPolicy()},
		{"unordered quality cuts", groups, Policy{Good: 0.5, Moderate: 0.8, HighCompleteness: 0.9, MediumCompleteness: 0.7}},
		{"unordered confidence cuts", groups, Policy{Good: 0.85, Moderate: 0.6, HighCompleteness: 0.6, MediumCompleteness: 0.7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScorer(tt.groups, tt.policy)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
