package merge

import (
	"fmt"
	"sort"
	"strconv"

	"seedlink/internal/matcher"
	"seedlink/internal/record"
	"seedlink/internal/services"
)

// conflictFormat renders both sides of a disagreeing field so the merged
// value stays auditable: regulatory value first, portal value in the marker.
const conflictFormat = "%s [conflict: %s]"

// Resolve merges an accepted match into one unified record. Rejected matches
// are a caller bug and produce a computation error: a two-source record must
// always trace back to an accepted decision.
func Resolve(result matcher.Result) (record.UnifiedVariety, error) {
	if !result.Accepted() {
		return record.UnifiedVariety{}, services.Wrap(services.ErrComputation, "merge", "resolve",
			fmt.Sprintf("rejected match for %s/%s cannot be merged", result.Pair.Regulatory.ID, result.Pair.Portal.ID), nil)
	}
	reg := result.Pair.Regulatory
	por := result.Pair.Portal

	u := record.UnifiedVariety{
		RegulatoryID: reg.ID,
		PortalID:     por.ID,
		CropKey:      cropKey(reg, por),
		Fields:       map[string]string{},
		Provenance:   provenance(reg.ID, por.ID),
	}

	u.VarietyName = preferString(&u, record.FieldVarietyName, reg.VarietyName, por.VarietyName)
	u.CropType = preferString(&u, record.FieldCropType, reg.CropType, por.CropType)
	u.Institution = preferString(&u, record.FieldInstitution, reg.Institution, por.Institution)
	u.YearOfRelease = preferYear(&u, reg.YearOfRelease, por.YearOfRelease)

	for _, field := range rawFieldNames(reg, por) {
		merged := preferString(&u, field, reg.RawFields[field], por.RawFields[field])
		if merged != "" {
			u.Fields[field] = merged
		}
	}
	return u, nil
}

// Single passes an unmatched source record through unchanged, with
// provenance listing exactly one source.
func Single(r *record.SourceRecord) record.UnifiedVariety {
	u := record.UnifiedVariety{
		VarietyName:   r.VarietyName,
		CropType:      r.CropType,
		CropKey:       r.CropKey,
		Institution:   r.Institution,
		YearOfRelease: r.YearOfRelease,
		Fields:        make(map[string]string, len(r.RawFields)),
		Provenance:    []string{r.ID},
	}
	switch r.Source {
	case record.SourceRegulatory:
		u.RegulatoryID = r.ID
	case record.SourcePortal:
		u.PortalID = r.ID
	}
	for field, value := range r.RawFields {
		if value != "" {
			u.Fields[field] = value
		}
	}
	return u
}

// preferString keeps the non-empty side. When both sides disagree it keeps
// the regulatory value annotated with the portal value and records the
// conflict.
func preferString(u *record.UnifiedVariety, field, regValue, porValue string) string {
	switch {
	case regValue == "":
		return porValue
	case porValue == "" || regValue == porValue:
		return regValue
	default:
		u.Conflicts = append(u.Conflicts, record.FieldConflict{
			Field:           field,
			RegulatoryValue: regValue,
			PortalValue:     porValue,
		})
		return fmt.Sprintf(conflictFormat, regValue, porValue)
	}
}

// preferYear resolves release years numerically. Conflicting years keep the
// regulatory value; the disagreement is recorded, not rendered inline, so the
// typed field stays usable.
func preferYear(u *record.UnifiedVariety, regYear, porYear int) int {
	switch {
	case regYear <= 0:
		return porYear
	case porYear <= 0 || regYear == porYear:
		return regYear
	default:
		u.Conflicts = append(u.Conflicts, record.FieldConflict{
			Field:           record.FieldYearOfRelease,
			RegulatoryValue: strconv.Itoa(regYear),
			PortalValue:     strconv.Itoa(porYear),
		})
		return regYear
	}
}

func cropKey(reg, por *record.SourceRecord) string {
	if reg.CropKey != "" {
		return reg.CropKey
	}
	return por.CropKey
}

func provenance(ids ...string) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return sorted
}

func rawFieldNames(reg, por *record.SourceRecord) []string {
	seen := make(map[string]struct{}, len(reg.RawFields)+len(por.RawFields))
	for field := range reg.RawFields {
		seen[field] = struct{}{}
	}
	for field := range por.RawFields {
		seen[field] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for field := range seen {
		names = append(names, field)
	}
	sort.Strings(names)
	return names
}
