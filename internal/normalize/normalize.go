package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Kind selects the normalization rules for a field.
type Kind int

const (
	// KindName normalizes variety names.
	KindName Kind = iota
	// KindInstitution normalizes breeding-institution strings and expands
	// known abbreviations.
	KindInstitution
	// KindCrop maps crop labels and synonyms onto one canonical token per
	// crop family.
	KindCrop
)

// Empty is the sentinel returned for blank or whitespace-only input.
const Empty = ""

var folder = cases.Fold()

// Normalize canonicalizes a raw field value: case-fold, strip punctuation
// while keeping digits and internal hyphens, collapse whitespace, then apply
// kind-specific expansion tables.
func Normalize(raw string, kind Kind) string {
	cleaned := clean(raw)
	if cleaned == Empty {
		return Empty
	}
	switch kind {
	case KindInstitution:
		return expandInstitution(cleaned)
	case KindCrop:
		return canonicalCrop(cleaned)
	default:
		return cleaned
	}
}

// Tokens splits a normalized value into its whitespace tokens. Blank input
// yields an empty slice.
func Tokens(normalized string) []string {
	if strings.TrimSpace(normalized) == Empty {
		return nil
	}
	return strings.Fields(normalized)
}

func clean(raw string) string {
	folded := folder.String(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(folded))
	prevHyphen := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		case r == '-':
			// Keep hyphens only between word characters; a leading or
			// doubled hyphen is punctuation noise.
			if b.Len() > 0 && !prevHyphen {
				b.WriteRune('-')
				prevHyphen = true
			}
		default:
			if b.Len() > 0 && !prevHyphen {
				b.WriteRune(' ')
			}
			prevHyphen = false
		}
	}
	out := strings.Trim(b.String(), " -")
	return strings.Join(strings.Fields(out), " ")
}
