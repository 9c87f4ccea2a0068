package record

// Canonical field names shared by both catalogs after extraction.
const (
	FieldVarietyName       = "variety_name"
	FieldCropType          = "crop_type"
	FieldInstitution       = "breeding_institution"
	FieldYearOfRelease     = "year_of_release"
	FieldApprovalStatus    = "approval_status"
	FieldRecommendedStates = "recommended_states"
	FieldStressTolerances  = "stressors_tolerated"
	FieldSpecialFeatures   = "special_features"
	FieldAgroClimaticZones = "agro_climatic_zones"
	FieldAdaptationZones   = "adaptation_zones"
	FieldQualityTraits     = "quality_traits"
	FieldMaturityDays      = "maturity_days"
	FieldParentLines       = "parent_lines"
)

// FieldGroup is a weighted set of semantically related fields used by the
// completeness scorer. Group weights must sum to 1.
type FieldGroup struct {
	Name   string
	Weight float64
	Fields []string
}

// DefaultFieldGroups returns the completeness grouping: identification and
// administrative fields dominate, stress-tolerance data comes second, and
// agronomic quality traits carry the remainder.
func DefaultFieldGroups() []FieldGroup {
	return []FieldGroup{
		{
			Name:   "identification",
			Weight: 0.5,
			Fields: []string{
				FieldVarietyName,
				FieldCropType,
				FieldInstitution,
				FieldYearOfRelease,
				FieldApprovalStatus,
				FieldRecommendedStates,
			},
		},
		{
			Name:   "stress_tolerance",
			Weight: 0.3,
			Fields: []string{
				FieldStressTolerances,
				FieldSpecialFeatures,
				FieldAgroClimaticZones,
			},
		},
		{
			Name:   "quality_agronomic",
			Weight: 0.2,
			Fields: []string{
				FieldQualityTraits,
				FieldMaturityDays,
				FieldParentLines,
			},
		},
	}
}
