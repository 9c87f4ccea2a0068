package matcher

import (
	"fmt"
	"math"

	"seedlink/internal/blocking"
	"seedlink/internal/services"
	"seedlink/internal/similarity"
)

// Tier is the discrete confidence bucket for a match decision.
type Tier string

const (
	TierHigh     Tier = "HIGH"
	TierMedium   Tier = "MEDIUM"
	TierLow      Tier = "LOW"
	TierRejected Tier = "REJECTED"
)

// ReviewReason explains why a match was flagged for manual review.
type ReviewReason string

const (
	ReviewNone          ReviewReason = ""
	ReviewLowConfidence ReviewReason = "low_confidence"
	// ReviewYearConflict flags a medium-tier match whose release years are
	// too far apart, a likely homonym rather than a re-release.
	ReviewYearConflict ReviewReason = "year_conflict"
)

// Weights controls how similarity signals combine into a confidence score.
// The four weights must sum to 1 so the score stays within [0,1]; the
// institution bonus is added only when agreement clears AgreementThreshold.
type Weights struct {
	EditDistance     float64
	TokenOverlap     float64
	JaroWinkler      float64
	InstitutionBonus float64
	// AgreementThreshold is the minimum graded institution agreement that
	// counts as positive.
	AgreementThreshold float64
}

// Thresholds are the tier cut points. They must be total-ordered and
// non-overlapping: scores >= High are HIGH, >= Medium are MEDIUM, >= Low are
// LOW, and everything below is REJECTED.
type Thresholds struct {
	High   float64
	Medium float64
	Low    float64
}

// DefaultWeights weights the primary string metrics above the secondary
// prefix/transposition metric, with a modest institution bonus.
func DefaultWeights() Weights {
	return Weights{
		EditDistance:       0.35,
		TokenOverlap:       0.35,
		JaroWinkler:        0.15,
		InstitutionBonus:   0.15,
		AgreementThreshold: 0.60,
	}
}

// DefaultThresholds returns the standard tier cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.90, Medium: 0.70, Low: 0.50}
}

// DefaultYearTolerance is the maximum release-year gap tolerated before a
// medium-tier match is flagged as a possible homonym.
const DefaultYearTolerance = 2

// Result is the immutable decision record for one candidate pair. Re-running
// matching produces new results; it never patches old ones.
type Result struct {
	Pair         blocking.Pair
	Vector       similarity.Vector
	Confidence   float64
	Tier         Tier
	ManualReview bool
	ReviewReason ReviewReason
}

// Accepted reports whether the pair cleared the rejection threshold.
func (r Result) Accepted() bool {
	return r.Tier != TierRejected
}

// Scorer classifies candidate pairs under a fixed policy.
type Scorer struct {
	weights       Weights
	thresholds    Thresholds
	yearTolerance int
}

// NewScorer validates the policy and returns a scorer. Weight and threshold
// violations are configuration errors; they are reported, not clamped.
func NewScorer(weights Weights, thresholds Thresholds, yearTolerance int) (*Scorer, error) {
	if err := validateWeights(weights); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "weights", err.Error(), nil)
	}
	if err := validateThresholds(thresholds); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "thresholds", err.Error(), nil)
	}
	if yearTolerance < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "year_tolerance", "must not be negative", nil)
	}
	return &Scorer{weights: weights, thresholds: thresholds, yearTolerance: yearTolerance}, nil
}

// Classify combines the similarity vector into a confidence score, assigns a
// tier, and decides whether the pair needs manual review. An out-of-range
// signal is an internal invariant violation and is surfaced as a computation
// error.
func (s *Scorer) Classify(pair blocking.Pair, vector similarity.Vector) (Result, error) {
	if err := vector.Validate(); err != nil {
		return Result{}, services.Wrap(services.ErrComputation, "matcher", "classify", "", err)
	}

	score := s.weights.EditDistance*vector.EditDistance +
		s.weights.TokenOverlap*vector.TokenOverlap +
		s.weights.JaroWinkler*vector.JaroWinkler
	if vector.InstitutionKnown && vector.Institution >= s.weights.AgreementThreshold {
		score += s.weights.InstitutionBonus
	}

	tier := s.tierFor(score)
	result := Result{
		Pair:       pair,
		Vector:     vector,
		Confidence: score,
		Tier:       tier,
	}

	switch {
	case tier == TierLow:
		result.ManualReview = true
		result.ReviewReason = ReviewLowConfidence
	case tier == TierMedium && s.yearsConflict(pair):
		result.ManualReview = true
		result.ReviewReason = ReviewYearConflict
	}
	return result, nil
}

func (s *Scorer) tierFor(score float64) Tier {
	switch {
	case score >= s.thresholds.High:
		return TierHigh
	case score >= s.thresholds.Medium:
		return TierMedium
	case score >= s.thresholds.Low:
		return TierLow
	default:
		return TierRejected
	}
}

func (s *Scorer) yearsConflict(pair blocking.Pair) bool {
	regYear, regOK := pair.Regulatory.Year()
	porYear, porOK := pair.Portal.Year()
	if !regOK || !porOK {
		return false
	}
	gap := regYear - porYear
	if gap < 0 {
		gap = -gap
	}
	return gap > s.yearTolerance
}

func validateWeights(w Weights) error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"edit_distance", w.EditDistance},
		{"token_overlap", w.TokenOverlap},
		{"jaro_winkler", w.JaroWinkler},
		{"institution_bonus", w.InstitutionBonus},
	} {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("weight %s must be within [0,1], got %v", c.name, c.value)
		}
	}
	sum := w.EditDistance + w.TokenOverlap + w.JaroWinkler + w.InstitutionBonus
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	if w.AgreementThreshold < 0 || w.AgreementThreshold > 1 {
		return fmt.Errorf("agreement_threshold must be within [0,1], got %v", w.AgreementThreshold)
	}
	return nil
}

func validateThresholds(t Thresholds) error {
	if t.Low <= 0 || t.High > 1 {
		return fmt.Errorf("thresholds must satisfy 0 < low and high <= 1, got low=%v high=%v", t.Low, t.High)
	}
	if !(t.Low < t.Medium && t.Medium < t.High) {
		return fmt.Errorf("thresholds must be strictly ordered low < medium < high, got %v/%v/%v", t.Low, t.Medium, t.High)
	}
	return nil
}
