package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"seedlink/internal/config"
	"seedlink/internal/linkage"
	"seedlink/internal/record"
	"seedlink/internal/services"
)

// Store persists linkage runs, unified varieties, and the manual review
// queue, backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = services.ErrNotFound

// Open initializes or connects to the linkage database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "seedlink.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// SaveOutcome persists a completed linkage run: the run summary, every
// unified variety, every rejection, and a review queue entry for each
// flagged match. The write is transactional; a partial run is never visible.
func (s *Store) SaveOutcome(ctx context.Context, outcome *linkage.Outcome) error {
	reportJSON, err := json.Marshal(outcome.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	report := outcome.Report
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, regulatory_total, portal_total,
            pairs_scored, matched, unmatched_regulatory, unmatched_portal,
            review_count, match_rate, report_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.StartedAt.Format(time.RFC3339Nano),
		report.FinishedAt.Format(time.RFC3339Nano),
		report.RegulatoryTotal,
		report.PortalTotal,
		report.PairsScored,
		report.Matched,
		report.UnmatchedRegulatory,
		report.UnmatchedPortal,
		report.ReviewCount,
		report.MatchRate,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i := range outcome.Varieties {
		if err := insertVariety(ctx, tx, report.RunID, &outcome.Varieties[i]); err != nil {
			return err
		}
	}
	for _, rej := range report.Rejections {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO rejections (run_id, record_id, source, reason) VALUES (?, ?, ?, ?)",
			report.RunID, rej.RecordID, string(rej.Source), rej.Reason,
		)
		if err != nil {
			return fmt.Errorf("insert rejection %s: %w", rej.RecordID, err)
		}
	}

	created := time.Now().UTC().Format(time.RFC3339Nano)
	for _, match := range outcome.Matches {
		if !match.ManualReview {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO review_queue (
                run_id, regulatory_id, portal_id, tier, confidence, reason, status, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID,
			match.Pair.Regulatory.ID,
			match.Pair.Portal.ID,
			string(match.Tier),
			match.Confidence,
			string(match.ReviewReason),
			string(ReviewPending),
			created,
		)
		if err != nil {
			return fmt.Errorf("insert review entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func insertVariety(ctx context.Context, tx *sql.Tx, runID string, v *record.UnifiedVariety) error {
	fieldsJSON, err := json.Marshal(v.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	conflictsJSON, err := json.Marshal(v.Conflicts)
	if err != nil {
		return fmt.Errorf("marshal conflicts: %w", err)
	}
	provenanceJSON, err := json.Marshal(v.Provenance)
	if err != nil {
		return fmt.Errorf("marshal provenance: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO varieties (
            run_id, regulatory_id, portal_id, variety_name, crop_type, crop_key,
            institution, year_of_release, completeness, quality_flag, confidence,
            fields_json, conflicts_json, provenance_json, sort_key
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		nullableString(v.RegulatoryID),
		nullableString(v.PortalID),
		v.VarietyName,
		v.CropType,
		v.CropKey,
		v.Institution,
		v.YearOfRelease,
		v.Completeness,
		string(v.QualityFlag),
		string(v.Confidence),
		string(fieldsJSON),
		string(conflictsJSON),
		string(provenanceJSON),
		v.SortKey(),
	)
	if err != nil {
		return fmt.Errorf("insert variety %q: %w", v.VarietyName, err)
	}
	return nil
}

// GetRun fetches one run summary by id.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, regulatory_total, portal_total,
            pairs_scored, matched, unmatched_regulatory, unmatched_portal,
            review_count, match_rate, report_json
        FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return run, err
}

// LatestRun fetches the most recently finished run, or ErrNotFound when the
// database holds none.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, regulatory_total, portal_total,
            pairs_scored, matched, unmatched_regulatory, unmatched_portal,
            review_count, match_rate, report_json
        FROM runs ORDER BY finished_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	return run, err
}

// ListRuns returns run summaries newest first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, regulatory_total, portal_total,
            pairs_scored, matched, unmatched_regulatory, unmatched_portal,
            review_count, match_rate, report_json
        FROM runs ORDER BY finished_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Varieties returns the unified records of a run in their stored order.
func (s *Store) Varieties(ctx context.Context, runID string) ([]record.UnifiedVariety, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT regulatory_id, portal_id, variety_name, crop_type, crop_key,
            institution, year_of_release, completeness, quality_flag, confidence,
            fields_json, conflicts_json, provenance_json
        FROM varieties WHERE run_id = ? ORDER BY sort_key`, runID)
	if err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}
	defer rows.Close()

	var varieties []record.UnifiedVariety
	for rows.Next() {
		var (
			v              record.UnifiedVariety
			regID, porID   sql.NullString
			fieldsJSON     string
			conflictsJSON  string
			provenanceJSON string
		)
		err := rows.Scan(
			&regID, &porID, &v.VarietyName, &v.CropType, &v.CropKey,
			&v.Institution, &v.YearOfRelease, &v.Completeness, &v.QualityFlag, &v.Confidence,
			&fieldsJSON, &conflictsJSON, &provenanceJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan variety: %w", err)
		}
		v.RegulatoryID = regID.String
		v.PortalID = porID.String
		if err := json.Unmarshal([]byte(fieldsJSON), &v.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields: %w", err)
		}
		if err := json.Unmarshal([]byte(conflictsJSON), &v.Conflicts); err != nil {
			return nil, fmt.Errorf("unmarshal conflicts: %w", err)
		}
		if err := json.Unmarshal([]byte(provenanceJSON), &v.Provenance); err != nil {
			return nil, fmt.Errorf("unmarshal provenance: %w", err)
		}
		varieties = append(varieties, v)
	}
	return varieties, rows.Err()
}

// Rejections returns the rejected records of a run.
func (s *Store) Rejections(ctx context.Context, runID string) ([]Rejection, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, record_id, source, reason FROM rejections WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("list rejections: %w", err)
	}
	defer rows.Close()

	var rejections []Rejection
	for rows.Next() {
		var rej Rejection
		var source string
		if err := rows.Scan(&rej.RunID, &rej.RecordID, &source, &rej.Reason); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		rej.Source = record.Source(source)
		rejections = append(rejections, rej)
	}
	return rejections, rows.Err()
}

// PendingReviews returns unresolved review entries, oldest first.
func (s *Store) PendingReviews(ctx context.Context) ([]*ReviewEntry, error) {
	return s.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM review_queue WHERE status = ? ORDER BY id",
		string(ReviewPending))
}

// ReviewsForRun returns every review entry of a run regardless of status.
func (s *Store) ReviewsForRun(ctx context.Context, runID string) ([]*ReviewEntry, error) {
	return s.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM review_queue WHERE run_id = ? ORDER BY id", runID)
}

// GetReview fetches one review entry by id.
func (s *Store) GetReview(ctx context.Context, id int64) (*ReviewEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM review_queue WHERE id = ?", id)
	entry, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	return entry, err
}

// ResolveReview records a human decision on a pending entry. Resolving an
// already-resolved entry is an error so two reviewers cannot silently
// overwrite each other.
func (s *Store) ResolveReview(ctx context.Context, id int64, decision ReviewStatus, note string) error {
	if decision != ReviewAccepted && decision != ReviewRejected {
		return fmt.Errorf("invalid review decision %q", decision)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE review_queue SET status = ?, note = ?, resolved_at = ? WHERE id = ? AND status = ?",
		string(decision),
		nullableString(note),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		string(ReviewPending),
	)
	if err != nil {
		return fmt.Errorf("resolve review %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve review %d: %w", id, err)
	}
	if affected == 0 {
		entry, getErr := s.GetReview(ctx, id)
		if getErr != nil {
			return getErr
		}
		return fmt.Errorf("review %d already resolved as %s", id, entry.Status)
	}
	return nil
}

const reviewColumns = "id, run_id, regulatory_id, portal_id, tier, confidence, reason, status, note, created_at, resolved_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run      Run
		started  string
		finished string
	)
	err := row.Scan(
		&run.ID, &started, &finished, &run.RegulatoryTotal, &run.PortalTotal,
		&run.PairsScored, &run.Matched, &run.UnmatchedRegulatory, &run.UnmatchedPortal,
		&run.ReviewCount, &run.MatchRate, &run.ReportJSON,
	)
	if err != nil {
		return nil, err
	}
	if run.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return nil, err
	}
	return &run, nil
}

func scanReview(row rowScanner) (*ReviewEntry, error) {
	var (
		entry    ReviewEntry
		note     sql.NullString
		created  string
		resolved sql.NullString
	)
	err := row.Scan(
		&entry.ID, &entry.RunID, &entry.RegulatoryID, &entry.PortalID,
		&entry.Tier, &entry.Confidence, &entry.Reason, &entry.Status,
		&note, &created, &resolved,
	)
	if err != nil {
		return nil, err
	}
	entry.Note = note.String
	if entry.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if resolved.Valid {
		if entry.ResolvedAt, err = parseTime(resolved.String); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

func (s *Store) queryReviews(ctx context.Context, query string, args ...any) ([]*ReviewEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var entries []*ReviewEntry
	for rows.Next() {
		entry, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
