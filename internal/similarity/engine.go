package similarity

import (
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"seedlink/internal/normalize"
	"seedlink/internal/record"
)

// Engine scores candidate record pairs. It is stateless after construction
// and safe for concurrent use.
type Engine struct {
	levenshtein *metrics.Levenshtein
	jaroWinkler *metrics.JaroWinkler
}

// NewEngine constructs an engine with the two name metrics. Inputs are
// compared in normalized (case-folded) form, so the metrics run
// case-sensitively.
func NewEngine() *Engine {
	return &Engine{
		levenshtein: metrics.NewLevenshtein(),
		jaroWinkler: metrics.NewJaroWinkler(),
	}
}

// Score computes the similarity vector for a candidate pair. Name and token
// signals are symmetric: Score(a, b) equals Score(b, a) for those fields.
func (e *Engine) Score(a, b *record.SourceRecord) Vector {
	v := Vector{
		EditDistance: e.nameSimilarity(e.levenshtein, a.NormalizedName, b.NormalizedName),
		JaroWinkler:  e.nameSimilarity(e.jaroWinkler, a.NormalizedName, b.NormalizedName),
		TokenOverlap: tokenOverlap(a.NormalizedName, b.NormalizedName),
		CropMatch:    a.CropKey != "" && a.CropKey == b.CropKey,
	}
	if a.InstitutionKey != "" && b.InstitutionKey != "" {
		v.InstitutionKnown = true
		v.Institution = tokenOverlap(a.InstitutionKey, b.InstitutionKey)
	}
	return v
}

func (e *Engine) nameSimilarity(metric strutil.StringMetric, a, b string) float64 {
	// Empty-vs-empty is a non-match, not a trivial perfect score.
	if a == "" && b == "" {
		return 0
	}
	return strutil.Similarity(a, b, metric)
}

// tokenOverlap measures shared whitespace tokens between two normalized
// values, scaled by the smaller token set so abbreviated names like
// "pb 1718" against "pusa basmati 1718" are not punished for the tokens the
// abbreviation drops. A token also counts as shared when it spells the
// initials of consecutive tokens on the other side, which is how variety
// codes abbreviate their full names. Taking the better direction keeps the
// measure symmetric.
func tokenOverlap(a, b string) float64 {
	ta := normalize.Tokens(a)
	tb := normalize.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	forward := matchedFraction(ta, tb)
	backward := matchedFraction(tb, ta)
	if backward > forward {
		return backward
	}
	return forward
}

func matchedFraction(from, against []string) float64 {
	set := make(map[string]struct{}, len(against))
	for _, tok := range against {
		set[tok] = struct{}{}
	}
	matched := 0
	for _, tok := range from {
		if _, ok := set[tok]; ok {
			matched++
			continue
		}
		if initialsMatch(tok, against) {
			matched++
		}
	}
	return float64(matched) / float64(len(from))
}

// initialsMatch reports whether token spells the initials of at least two
// consecutive tokens in candidates, e.g. "pb" against ["pusa", "basmati"].
func initialsMatch(token string, candidates []string) bool {
	if len(token) < 2 {
		return false
	}
	for start := 0; start+1 < len(candidates); start++ {
		var initials []rune
		for i := start; i < len(candidates) && len(initials) < len(token); i++ {
			r, _ := utf8.DecodeRuneInString(candidates[i])
			initials = append(initials, r)
		}
		if len(initials) >= 2 && string(initials) == token {
			return true
		}
	}
	return false
}
