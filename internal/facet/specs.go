package facet

import (
	"regexp"
	"strings"
)

// Facets is the structured attribute set inferred for one product.
type Facets struct {
	Brand string
	Specs map[string]string
}

// specRule is one (pattern, formatter) entry in a facet's ordered rule
// table. Rules evaluate first-match-wins per facet.
type specRule struct {
	facet  string
	re     *regexp.Regexp
	format func(m []string) string
}

var electronicsRules = []specRule{
	{
		facet:  "RAM",
		re:     regexp.MustCompile(`(?i)\b(\d+)\s?GB\b`),
		format: func(m []string) string { return m[1] + "GB" },
	},
	{
		facet:  "Storage",
		re:     regexp.MustCompile(`(?i)\b(\d+)\s?(GB|TB)\s?(SSD|HDD|NVMe|ROM|eMMC)\b`),
		format: func(m []string) string { return m[1] + strings.ToUpper(m[2]) + " " + normalizeStorageType(m[3]) },
	},
	{
		facet:  "CPU",
		re:     regexp.MustCompile(`(?i)\bRyzen\s?(\d)\b`),
		format: func(m []string) string { return "Ryzen " + m[1] },
	},
	{
		facet:  "CPU",
		re:     regexp.MustCompile(`(?i)\bCore\s?i(\d)\b`),
		format: func(m []string) string { return "Core i" + m[1] },
	},
	{
		facet:  "CPU",
		re:     regexp.MustCompile(`(?i)\bApple\s?M(\d)\b`),
		format: func(m []string) string { return "Apple M" + m[1] },
	},
	{
		facet:  "CPU",
		re:     regexp.MustCompile(`(?i)\bSnapdragon\b`),
		format: func(m []string) string { return "Snapdragon" },
	},
}

var materialVocab = []string{
	"cotton", "leather", "denim", "silk", "wool", "polyester",
	"linen", "suede", "canvas", "nylon", "velvet",
}

var colorVocab = []string{
	"black", "white", "red", "blue", "green", "navy", "grey", "gray",
	"brown", "pink", "purple", "yellow", "orange", "maroon", "beige",
	"khaki", "olive", "silver", "gold",
}

var electronicsMarkers = []string{
	"laptop", "notebook", "macbook", "desktop", "computer", "pc",
	"phone", "smartphone", "mobile", "tablet", "monitor", "gaming",
	"electronics", "accessories", "router", "camera", "console",
	"processor", "graphics", "ssd", "headphone", "earbud", "watch",
}

var apparelMarkers = []string{
	"fashion", "clothing", "apparel", "shirt", "t-shirt", "pant",
	"jeans", "dress", "shoe", "sneaker", "sandal", "jacket", "hoodie",
	"saree", "panjabi", "kurti", "bag", "wallet", "belt",
}

// Infer derives a product's facets from its title, category, and optional
// explicit brand tag. Unmatched categories yield an empty spec map; that is
// expected, not an error. No randomness, no external calls.
func Infer(title, category, explicitBrand string) Facets {
	f := Facets{
		Brand: InferBrand(title, explicitBrand),
		Specs: map[string]string{},
	}

	switch {
	case matchesAny(category, electronicsMarkers):
		for _, rule := range electronicsRules {
			if _, done := f.Specs[rule.facet]; done {
				continue
			}
			if m := rule.re.FindStringSubmatch(title); m != nil {
				f.Specs[rule.facet] = rule.format(m)
			}
		}
	case matchesAny(category, apparelMarkers):
		lower := strings.ToLower(title)
		if v := firstFromVocab(lower, materialVocab); v != "" {
			f.Specs["Material"] = v
		}
		if v := firstFromVocab(lower, colorVocab); v != "" {
			f.Specs["Color"] = v
		}
	}
	return f
}

func normalizeStorageType(t string) string {
	switch strings.ToLower(t) {
	case "nvme":
		return "NVMe"
	case "emmc":
		return "eMMC"
	default:
		return strings.ToUpper(t)
	}
}

func matchesAny(category string, markers []string) bool {
	category = strings.ToLower(category)
	for _, m := range markers {
		if strings.Contains(category, m) {
			return true
		}
	}
	return false
}

// firstFromVocab scans title tokens in title order, so "Navy Blue"
// yields navy regardless of vocabulary order.
func firstFromVocab(lowerTitle string, vocab []string) string {
	set := make(map[string]struct{}, len(vocab))
	for _, v := range vocab {
		set[v] = struct{}{}
	}
	for _, tok := range Tokenize(lowerTitle) {
		if _, ok := set[tok]; ok {
			return tok
		}
	}
	return ""
}
