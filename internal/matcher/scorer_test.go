package matcher

import (
	"errors"
	"testing"

	"seedlink/internal/blocking"
	"seedlink/internal/record"
	"seedlink/internal/services"
	"seedlink/internal/similarity"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights(), DefaultThresholds(), DefaultYearTolerance)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return s
}

func pairWithYears(regYear, porYear int) blocking.Pair {
	return blocking.Pair{
		Regulatory: &record.SourceRecord{ID: "REG_1", Source: record.SourceRegulatory, YearOfRelease: regYear},
		Portal:     &record.SourceRecord{ID: "POR_1", Source: record.SourcePortal, YearOfRelease: porYear},
		Block:      "rice",
	}
}

// uniformVector builds a vector whose string signals all carry the same
// value; under the default weights the string portion contributes
// 0.85*signal to the score.
func uniformVector(signal float64) similarity.Vector {
	return similarity.Vector{
		EditDistance: signal,
		TokenOverlap: signal,
		JaroWinkler:  signal,
		CropMatch:    true,
	}
}

func TestTierBoundaries(t *testing.T) {
	scorer := newTestScorer(t)
	tests := []struct {
		score float64
		want  Tier
	}{
		{1.00, TierHigh},
		{0.91, TierHigh},
		{0.90, TierHigh},
		{0.89, TierMedium},
		{0.71, TierMedium},
		{0.70, TierMedium},
		{0.69, TierLow},
		{0.51, TierLow},
		{0.50, TierLow},
		{0.49, TierRejected},
		{0.00, TierRejected},
	}
	for _, tt := range tests {
		if got := scorer.tierFor(tt.score); got != tt.want {
			t.Errorf("tierFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyTiers(t *testing.T) {
	scorer := newTestScorer(t)
	tests := []struct {
		name   string
		vector similarity.Vector
		want   Tier
	}{
		{"perfect with institution", withInstitution(uniformVector(1), 1), TierHigh},
		{"strong strings only", uniformVector(0.85), TierMedium}, // 0.7225
		{"middling strings", uniformVector(0.6), TierLow},        // 0.51
		{"weak strings", uniformVector(0.4), TierRejected},       // 0.34
		{"zero vector", similarity.Vector{}, TierRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scorer.Classify(pairWithYears(2018, 2018), tt.vector)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if result.Confidence < 0 || result.Confidence > 1 {
				t.Errorf("Confidence %v outside [0,1]", result.Confidence)
			}
			if result.Tier != tt.want {
				t.Errorf("Tier = %s (score %v), want %s", result.Tier, result.Confidence, tt.want)
			}
		})
	}
}

func withInstitution(v similarity.Vector, agreement float64) similarity.Vector {
	v.InstitutionKnown = true
	v.Institution = agreement
	return v
}

func TestClassifyDeterministic(t *testing.T) {
	scorer := newTestScorer(t)
	vector := withInstitution(uniformVector(0.8), 1)
	pair := pairWithYears(2018, 2018)
	first, err := scorer.Classify(pair, vector)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := scorer.Classify(pair, vector)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if again != first {
			t.Fatalf("Classify not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestClassifyInstitutionBonus(t *testing.T) {
	scorer := newTestScorer(t)
	base := uniformVector(0.75)

	without, err := scorer.Classify(pairWithYears(0, 0), base)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	with, err := scorer.Classify(pairWithYears(0, 0), withInstitution(base, 1))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if with.Confidence <= without.Confidence {
		t.Errorf("institution agreement should boost score: %v vs %v", with.Confidence, without.Confidence)
	}

	// Agreement below the threshold earns no bonus.
	weak, err := scorer.Classify(pairWithYears(0, 0), withInstitution(base, 0.3))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if weak.Confidence != without.Confidence {
		t.Errorf("weak agreement must be neutral: %v vs %v", weak.Confidence, without.Confidence)
	}
}

func TestClassifyManualReview(t *testing.T) {
	scorer := newTestScorer(t)
	tests := []struct {
		name       string
		vector     similarity.Vector
		pair       blocking.Pair
		wantReview bool
		wantReason ReviewReason
	}{
		{
			name:       "low tier always reviewed",
			vector:     uniformVector(0.6), // 0.51 -> LOW
			pair:       pairWithYears(2018, 2018),
			wantReview: true,
			wantReason: ReviewLowConfidence,
		},
		{
			name:       "medium with year conflict",
			vector:     uniformVector(0.8333), // ~0.708 -> MEDIUM
			pair:       pairWithYears(1990, 2015),
			wantReview: true,
			wantReason: ReviewYearConflict,
		},
		{
			name:       "medium with close years",
			vector:     uniformVector(0.8333),
			pair:       pairWithYears(2014, 2015),
			wantReview: false,
			wantReason: ReviewNone,
		},
		{
			name:       "medium with missing year is not a conflict",
			vector:     uniformVector(0.8333),
			pair:       pairWithYears(0, 2015),
			wantReview: false,
			wantReason: ReviewNone,
		},
		{
			name:       "high tier with year gap",
			vector:     withInstitution(uniformVector(1), 1),
			pair:       pairWithYears(1990, 2015),
			wantReview: false,
			wantReason: ReviewNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scorer.Classify(tt.pair, tt.vector)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if result.ManualReview != tt.wantReview {
				t.Errorf("ManualReview = %v, want %v (tier %s)", result.ManualReview, tt.wantReview, result.Tier)
			}
			if result.ReviewReason != tt.wantReason {
				t.Errorf("ReviewReason = %q, want %q", result.ReviewReason, tt.wantReason)
			}
		})
	}
}

func TestClassifyOutOfRangeSignal(t *testing.T) {
	scorer := newTestScorer(t)
	_, err := scorer.Classify(pairWithYears(0, 0), similarity.Vector{EditDistance: 1.5})
	if err == nil {
		t.Fatal("expected computation error for out-of-range signal")
	}
	if !errors.Is(err, services.ErrComputation) {
		t.Errorf("expected ErrComputation, got %v", err)
	}
}

func TestNewScorerRejectsBadPolicy(t *testing.T) {
	tests := []struct {
		name       string
		weights    Weights
		thresholds Thresholds
		tolerance  int
	}{
		{"weights do not sum to 1", Weights{EditDistance: 0.5, TokenOverlap: 0.5, JaroWinkler: 0.5}, DefaultThresholds(), 2},
		{"negative weight", Weights{EditDistance: -0.1, TokenOverlap: 0.6, JaroWinkler: 0.4, InstitutionBonus: 0.1}, DefaultThresholds(), 2},
		{"unordered thresholds", DefaultWeights(), Thresholds{High: 0.5, Medium: 0.7, Low: 0.9}, 2},
		{"threshold above 1", DefaultWeights(), Thresholds{High: 1.2, Medium: 0.7, Low: 0.5}, 2},
		{"negative tolerance", DefaultWeights(), DefaultThresholds(), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScorer(tt.weights, tt.thresholds, tt.tolerance)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
