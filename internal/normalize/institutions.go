package normalize

import "strings"

// institutionExpansions maps well-known institute abbreviations to their
// canonical long forms. Keys must already be in cleaned (case-folded) form.
var institutionExpansions = map[string]string{
	"iari":    "indian agricultural research institute",
	"icar":    "indian council of agricultural research",
	"pau":     "punjab agricultural university",
	"aau":     "anand agricultural university",
	"tnau":    "tamil nadu agricultural university",
	"angrau":  "acharya n g ranga agricultural university",
	"gbpuat":  "govind ballabh pant university of agriculture and technology",
	"ccshau":  "chaudhary charan singh haryana agricultural university",
	"iihr":    "indian institute of horticultural research",
	"icrisat": "international crops research institute for the semi-arid tropics",
	"cimmyt":  "international maize and wheat improvement center",
	"irri":    "international rice research institute",
	"nrcog":   "national research centre for onion and garlic",
	"csir":    "council of scientific and industrial research",
	"ihbt":    "institute of himalayan bioresource technology",
	"drr":     "directorate of rice research",
	"dwr":     "directorate of wheat research",
}

// expandInstitution replaces abbreviated tokens with their long forms. Input
// must already be cleaned. Unknown tokens pass through untouched.
func expandInstitution(cleaned string) string {
	tokens := strings.Fields(cleaned)
	for i, token := range tokens {
		if long, ok := institutionExpansions[token]; ok {
			tokens[i] = long
		}
	}
	return strings.Join(tokens, " ")
}
