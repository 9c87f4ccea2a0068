package similarity

import "fmt"

// Vector is the per-pair bag of similarity signals. Immutable once computed.
type Vector struct {
	// EditDistance is normalized Levenshtein similarity over the normalized
	// names: 1 - distance/max(len). Zero when both names are empty.
	EditDistance float64
	// JaroWinkler is the second, prefix/transposition-weighted name signal.
	JaroWinkler float64
	// TokenOverlap is the whitespace-token overlap between the names.
	TokenOverlap float64
	// Institution is the graded agreement between normalized institution
	// strings. Meaningful only when InstitutionKnown is true.
	Institution float64
	// InstitutionKnown is false when either side lacks an institution; the
	// signal is then neutral, neither boosting nor penalizing.
	InstitutionKnown bool
	// CropMatch records whether both records share a crop block. True by
	// construction for blocked pairs; retained for auditability.
	CropMatch bool
}

// Validate checks the bounded-signal contract. A violation indicates an
// internal invariant failure in a similarity algorithm and must be surfaced,
// never masked.
func (v Vector) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"edit_distance", v.EditDistance},
		{"jaro_winkler", v.JaroWinkler},
		{"token_overlap", v.TokenOverlap},
		{"institution", v.Institution},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("signal %s out of range: %v", c.name, c.value)
		}
	}
	return nil
}
