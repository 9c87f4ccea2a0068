package linkage

import (
	"time"

	"seedlink/internal/matcher"
	"seedlink/internal/record"
)

// Rejection describes one record that failed validation. Collected into the
// report rather than aborting the run.
type Rejection struct {
	RecordID string        `json:"record_id"`
	Source   record.Source `json:"source"`
	Reason   string        `json:"reason"`
}

// Report summarizes a linkage run: input sizes, rejected records, match and
// tier distributions, and the overall match rate.
type Report struct {
	RunID               string               `json:"run_id"`
	StartedAt           time.Time            `json:"started_at"`
	FinishedAt          time.Time            `json:"finished_at"`
	RegulatoryTotal     int                  `json:"regulatory_total"`
	PortalTotal         int                  `json:"portal_total"`
	Rejections          []Rejection          `json:"rejections,omitempty"`
	PairsScored         int                  `json:"pairs_scored"`
	Matched             int                  `json:"matched"`
	UnmatchedRegulatory int                  `json:"unmatched_regulatory"`
	UnmatchedPortal     int                  `json:"unmatched_portal"`
	TierCounts          map[matcher.Tier]int `json:"tier_counts"`
	ReviewCount         int                  `json:"review_count"`
	MatchRate           float64              `json:"match_rate"`
}

// Duration reports how long the run took.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// matchRate is the fraction of unified output records backed by both
// sources.
func (r Report) matchRate() float64 {
	outputs := r.Matched + r.UnmatchedRegulatory + r.UnmatchedPortal
	if outputs == 0 {
		return 0
	}
	return float64(r.Matched) / float64(outputs)
}
