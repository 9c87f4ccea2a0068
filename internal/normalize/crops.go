package normalize

// cropSynonyms maps cleaned crop labels onto one canonical token per crop
// family. Labels absent from the table pass through in cleaned form.
var cropSynonyms = map[string]string{
	"paddy":         "rice",
	"dhan":          "rice",
	"basmati":       "rice",
	"corn":          "maize",
	"makka":         "maize",
	"gram":          "chickpea",
	"chana":         "chickpea",
	"bengal gram":   "chickpea",
	"arhar":         "pigeonpea",
	"tur":           "pigeonpea",
	"red gram":      "pigeonpea",
	"jowar":         "sorghum",
	"bajra":         "pearl millet",
	"pearlmillet":   "pearl millet",
	"ragi":          "finger millet",
	"sarson":        "mustard",
	"rai":           "mustard",
	"rapeseed":      "mustard",
	"peanut":        "groundnut",
	"moong":         "mungbean",
	"green gram":    "mungbean",
	"urad":          "blackgram",
	"black gram":    "blackgram",
	"masur":         "lentil",
	"masoor":        "lentil",
	"kapas":         "cotton",
	"pyaz":          "onion",
	"soyabean":      "soybean",
	"soya bean":     "soybean",
	"gehu":          "wheat",
	"gehun":         "wheat",
	"sugar cane":    "sugarcane",
	"sweet sorghum": "sorghum",
}

// canonicalCrop maps a cleaned crop label to its family token.
func canonicalCrop(cleaned string) string {
	if canonical, ok := cropSynonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}
