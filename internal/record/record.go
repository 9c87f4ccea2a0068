package record

import (
	"fmt"
	"sort"
	"strings"
)

// Source identifies the catalog a record originated from.
type Source string

const (
	// SourceRegulatory marks rows extracted from regulatory committee documents.
	SourceRegulatory Source = "regulatory"
	// SourcePortal marks rows scraped from the government seed portal.
	SourcePortal Source = "portal"
)

// SourceRecord is one normalized row from one source catalog. Records are
// read-only inputs: the linkage core never mutates them.
type SourceRecord struct {
	ID             string
	Source         Source
	VarietyName    string
	NormalizedName string
	CropType       string
	CropKey        string
	Institution    string
	InstitutionKey string
	YearOfRelease  int
	RawFields      map[string]string
}

// Year reports the release year and whether one is known.
func (r *SourceRecord) Year() (int, bool) {
	if r.YearOfRelease <= 0 {
		return 0, false
	}
	return r.YearOfRelease, true
}

// Field returns the raw value for name, preferring the typed fields over the
// raw field map so canonical attributes stay authoritative.
func (r *SourceRecord) Field(name string) string {
	switch name {
	case FieldVarietyName:
		return r.VarietyName
	case FieldCropType:
		return r.CropType
	case FieldInstitution:
		return r.Institution
	case FieldYearOfRelease:
		if r.YearOfRelease > 0 {
			return fmt.Sprintf("%d", r.YearOfRelease)
		}
		return ""
	}
	return strings.TrimSpace(r.RawFields[name])
}

// QualityFlag grades overall data completeness of a unified record.
type QualityFlag string

const (
	QualityGood     QualityFlag = "GOOD"
	QualityModerate QualityFlag = "MODERATE"
	QualityPoor     QualityFlag = "POOR"
)

// ConfidenceLevel grades how trustworthy a unified record is, accounting for
// both completeness and the number of independent contributing sources.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// FieldConflict records two non-empty values that disagreed during merging.
// Conflicts are kept rather than silently resolved so reviewers can audit
// them later.
type FieldConflict struct {
	Field           string
	RegulatoryValue string
	PortalValue     string
}

// UnifiedVariety is the merged output entity, one per real-world variety.
// A record built from both sources always traces back to an accepted match;
// a single-source record carries exactly one provenance entry.
type UnifiedVariety struct {
	RegulatoryID  string
	PortalID      string
	VarietyName   string
	CropType      string
	CropKey       string
	Institution   string
	YearOfRelease int
	Fields        map[string]string
	Conflicts     []FieldConflict
	Completeness  float64
	QualityFlag   QualityFlag
	Confidence    ConfidenceLevel
	Provenance    []string
}

// SourceCount reports how many independent catalogs contributed.
func (u *UnifiedVariety) SourceCount() int {
	return len(u.Provenance)
}

// Field returns the merged value for name, preferring typed fields.
func (u *UnifiedVariety) Field(name string) string {
	switch name {
	case FieldVarietyName:
		return u.VarietyName
	case FieldCropType:
		return u.CropType
	case FieldInstitution:
		return u.Institution
	case FieldYearOfRelease:
		if u.YearOfRelease > 0 {
			return fmt.Sprintf("%d", u.YearOfRelease)
		}
		return ""
	}
	return strings.TrimSpace(u.Fields[name])
}

// SortKey is the deterministic ordering key for unified output: crop key
// first, then contributing source ids. Repeated runs over identical input
// emit records in identical order.
func (u *UnifiedVariety) SortKey() string {
	ids := make([]string, len(u.Provenance))
	copy(ids, u.Provenance)
	sort.Strings(ids)
	return u.CropKey + "\x00" + strings.Join(ids, "\x00")
}
