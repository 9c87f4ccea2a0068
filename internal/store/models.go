package store

import (
	"time"

	"seedlink/internal/record"
)

// ReviewStatus is the lifecycle of a manual review entry.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewAccepted ReviewStatus = "accepted"
	ReviewRejected ReviewStatus = "rejected"
)

var reviewStatusSet = map[ReviewStatus]struct{}{
	ReviewPending:  {},
	ReviewAccepted: {},
	ReviewRejected: {},
}

// IsValid reports whether the status is one of the known values.
func (s ReviewStatus) IsValid() bool {
	_, ok := reviewStatusSet[s]
	return ok
}

// Run is the persisted summary of one linkage run.
type Run struct {
	ID                  string
	StartedAt           time.Time
	FinishedAt          time.Time
	RegulatoryTotal     int
	PortalTotal         int
	PairsScored         int
	Matched             int
	UnmatchedRegulatory int
	UnmatchedPortal     int
	ReviewCount         int
	MatchRate           float64
	ReportJSON          string
}

// ReviewEntry is one queued match awaiting a human decision.
type ReviewEntry struct {
	ID           int64
	RunID        string
	RegulatoryID string
	PortalID     string
	Tier         string
	Confidence   float64
	Reason       string
	Status       ReviewStatus
	Note         string
	CreatedAt    time.Time
	ResolvedAt   time.Time
}

// Resolved reports whether a decision has been recorded.
func (e *ReviewEntry) Resolved() bool {
	return e.Status != ReviewPending
}

// Rejection is one persisted record rejection from a run.
type Rejection struct {
	RunID    string
	RecordID string
	Source   record.Source
	Reason   string
}
