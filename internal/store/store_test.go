package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seedlink/internal/linkage"
	"seedlink/internal/record"
	"seedlink/internal/store"
	"seedlink/internal/testsupport"
)

func runFixtureLinkage(t *testing.T) *linkage.Outcome {
	t.Helper()

	linker, err := linkage.New(nil, nil)
	if err != nil {
		t.Fatalf("linkage.New: %v", err)
	}
	regulatory := []record.SourceRecord{
		{ID: "REG_000001", VarietyName: "HD 3226", CropType: "Wheat", Institution: "IARI", YearOfRelease: 2019},
		{ID: "REG_000002", VarietyName: "Shakti Gold", CropType: "Maize", YearOfRelease: 1990},
		{ID: "REG_000003", VarietyName: "", CropType: "Rice"}, // rejected
	}
	portal := []record.SourceRecord{
		{ID: "POR_000001", VarietyName: "HD 3226", CropType: "Wheat", Institution: "IARI", YearOfRelease: 2019},
		{ID: "POR_000002", VarietyName: "Shakti Gold", CropType: "Maize", YearOfRelease: 2015},
	}
	outcome, err := linker.Link(context.Background(), regulatory, portal)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if outcome.Report.ReviewCount == 0 {
		t.Fatal("fixture should produce a review-flagged match")
	}
	if len(outcome.Report.Rejections) == 0 {
		t.Fatal("fixture should produce a rejection")
	}
	return outcome
}

func TestSaveOutcomeRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	outcome := runFixtureLinkage(t)

	if err := st.SaveOutcome(ctx, outcome); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}

	run, err := st.GetRun(ctx, outcome.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Matched != outcome.Report.Matched {
		t.Errorf("Matched = %d, want %d", run.Matched, outcome.Report.Matched)
	}
	if run.ReviewCount != outcome.Report.ReviewCount {
		t.Errorf("ReviewCount = %d, want %d", run.ReviewCount, outcome.Report.ReviewCount)
	}
	if !strings.Contains(run.ReportJSON, outcome.RunID) {
		t.Error("report JSON missing run id")
	}

	latest, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != outcome.RunID {
		t.Errorf("LatestRun = %s, want %s", latest.ID, outcome.RunID)
	}

	varieties, err := st.Varieties(ctx, outcome.RunID)
	if err != nil {
		t.Fatalf("Varieties: %v", err)
	}
	if len(varieties) != len(outcome.Varieties) {
		t.Fatalf("Varieties = %d rows, want %d", len(varieties), len(outcome.Varieties))
	}
	for i := range varieties {
		got, want := varieties[i], outcome.Varieties[i]
		if got.VarietyName != want.VarietyName || got.CropKey != want.CropKey {
			t.Errorf("variety %d = %q/%q, want %q/%q", i, got.VarietyName, got.CropKey, want.VarietyName, want.CropKey)
		}
		if got.QualityFlag != want.QualityFlag || got.Confidence != want.Confidence {
			t.Errorf("variety %d grading = %s/%s, want %s/%s", i, got.QualityFlag, got.Confidence, want.QualityFlag, want.Confidence)
		}
		if len(got.Provenance) != len(want.Provenance) {
			t.Errorf("variety %d provenance = %v, want %v", i, got.Provenance, want.Provenance)
		}
	}

	rejections, err := st.Rejections(ctx, outcome.RunID)
	if err != nil {
		t.Fatalf("Rejections: %v", err)
	}
	if len(rejections) != len(outcome.Report.Rejections) {
		t.Fatalf("Rejections = %d, want %d", len(rejections), len(outcome.Report.Rejections))
	}
	if rejections[0].RecordID != "REG_000003" {
		t.Errorf("rejection record = %s, want REG_000003", rejections[0].RecordID)
	}
}

func TestReviewQueueLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	outcome := runFixtureLinkage(t)

	if err := st.SaveOutcome(ctx, outcome); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}

	pending, err := st.PendingReviews(ctx)
	if err != nil {
		t.Fatalf("PendingReviews: %v", err)
	}
	if len(pending) != outcome.Report.ReviewCount {
		t.Fatalf("PendingReviews = %d, want %d", len(pending), outcome.Report.ReviewCount)
	}
	entry := pending[0]
	if entry.Resolved() {
		t.Error("fresh entry reports resolved")
	}
	if entry.Reason == "" || entry.Tier == "" {
		t.Errorf("entry missing detail: %+v", entry)
	}

	if err := st.ResolveReview(ctx, entry.ID, store.ReviewAccepted, "checked against gazette"); err != nil {
		t.Fatalf("ResolveReview: %v", err)
	}
	resolved, err := st.GetReview(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if resolved.Status != store.ReviewAccepted || resolved.Note != "checked against gazette" {
		t.Errorf("entry = %s/%q, want accepted with note", resolved.Status, resolved.Note)
	}
	if resolved.ResolvedAt.IsZero() {
		t.Error("ResolvedAt not set")
	}

	// A second decision must not overwrite the first.
	if err := st.ResolveReview(ctx, entry.ID, store.ReviewRejected, ""); err == nil {
		t.Fatal("expected error resolving an already-resolved entry")
	}

	remaining, err := st.PendingReviews(ctx)
	if err != nil {
		t.Fatalf("PendingReviews: %v", err)
	}
	if len(remaining) != len(pending)-1 {
		t.Errorf("pending = %d, want %d", len(remaining), len(pending)-1)
	}
}

func TestResolveReviewValidatesDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if err := st.ResolveReview(context.Background(), 1, store.ReviewPending, ""); err == nil {
		t.Fatal("expected error for pending as a decision")
	}
	if err := st.ResolveReview(context.Background(), 1, "maybe", ""); err == nil {
		t.Fatal("expected error for unknown decision")
	}
}

func TestGetRunNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.GetRun(context.Background(), "no-such-run")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetRun error = %v, want ErrNotFound", err)
	}
	_, err = st.LatestRun(context.Background())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LatestRun error = %v, want ErrNotFound", err)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()
	outcome := runFixtureLinkage(t)

	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.SaveOutcome(ctx, outcome); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	run, err := second.GetRun(ctx, outcome.RunID)
	if err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
	if run.ID != outcome.RunID {
		t.Errorf("run = %s, want %s", run.ID, outcome.RunID)
	}
}
