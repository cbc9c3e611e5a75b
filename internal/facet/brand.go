package facet

import "strings"

// knownBrands is the fixed brand vocabulary scanned against title tokens.
// Values are lowercase; matching is token-exact, not substring.
var knownBrands = map[string]struct{}{
	"apple": {}, "samsung": {}, "xiaomi": {}, "realme": {}, "oneplus": {},
	"oppo": {}, "vivo": {}, "google": {}, "nokia": {}, "motorola": {},
	"huawei": {}, "infinix": {}, "tecno": {}, "walton": {}, "symphony": {},
	"asus": {}, "lenovo": {}, "hp": {}, "dell": {}, "acer": {}, "msi": {},
	"gigabyte": {}, "razer": {}, "microsoft": {}, "lg": {}, "sony": {},
	"toshiba": {}, "intel": {}, "amd": {}, "nvidia": {}, "corsair": {},
	"logitech": {}, "tp": {}, "tplink": {}, "netgear": {}, "dlink": {},
	"canon": {}, "nikon": {}, "gopro": {}, "dji": {}, "anker": {},
	"baseus": {}, "ugreen": {}, "jbl": {}, "bose": {}, "sennheiser": {},
	"havit": {}, "fantech": {}, "a4tech": {}, "transcend": {},
	"sandisk": {}, "seagate": {}, "kingston": {}, "adata": {}, "pny": {},
	"nike": {}, "adidas": {}, "puma": {}, "reebok": {}, "levis": {},
	"zara": {}, "uniqlo": {}, "gucci": {}, "casio": {}, "fossil": {},
	"titan": {}, "seiko": {}, "citizen": {}, "aarong": {}, "ecstasy": {},
	"richman": {}, "cats": {}, "yellow": {}, "sailor": {},
}

// brandPlaceholders are explicit-tag values carrying no information.
var brandPlaceholders = map[string]struct{}{
	"": {}, "generic": {}, "other": {}, "others": {}, "null": {},
	"none": {}, "unknown": {}, "no brand": {}, "n/a": {},
}

// brandStopWords reject marketing filler as a first-token brand guess.
var brandStopWords = map[string]struct{}{
	"new": {}, "sale": {}, "best": {}, "hot": {}, "original": {},
	"official": {}, "genuine": {}, "premium": {}, "latest": {},
	"combo": {}, "offer": {}, "discount": {}, "free": {}, "top": {},
	"super": {}, "mega": {}, "exclusive": {}, "limited": {},
	"for": {}, "the": {}, "and": {}, "with": {}, "pro": {}, "mini": {},
}

// InferBrand resolves a product's brand facet. Resolution order: the
// explicit tag when it is not a placeholder, a known-brand scan over title
// tokens, a guarded first-token fallback, then the "generic" sentinel.
// Deterministic for identical inputs.
func InferBrand(title, explicit string) string {
	explicit = strings.ToLower(strings.TrimSpace(explicit))
	if _, placeholder := brandPlaceholders[explicit]; !placeholder {
		return explicit
	}

	tokens := Tokenize(title)
	for _, tok := range tokens {
		if _, ok := knownBrands[tok]; ok {
			return tok
		}
	}

	if len(tokens) > 0 {
		first := tokens[0]
		_, stop := brandStopWords[first]
		if !stop && !IsNumeric(first) && len(first) >= 3 {
			return first
		}
	}
	return "generic"
}
