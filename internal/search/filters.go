package search

import (
	"strings"

	"github.com/omnishop/omnishop/internal/corpus"
)

// laptopSynonyms is the category carve-out: shoppers say "laptop" for
// records categorized under macbook or notebook.
var laptopSynonyms = []string{"macbook", "notebook"}

// passes reports whether a record survives the hard filters. Filters are
// exclusionary, never scored.
func (f Filters) passes(rec *corpus.ProductRecord) bool {
	if f.MinPrice > 0 {
		// A positive minimum requires a known price.
		if !rec.HasPrice() || rec.Price < f.MinPrice {
			return false
		}
	}
	if f.MaxPrice > 0 && rec.HasPrice() && rec.Price > f.MaxPrice {
		return false
	}
	if f.Source != "" && !strings.EqualFold(f.Source, rec.Source) {
		return false
	}
	if f.Category != "" && !categoryMatches(f.Category, rec.Category) {
		return false
	}
	return true
}

// categoryMatches checks a bidirectional substring between the wanted
// category and the record category, plus the laptop synonym carve-out.
func categoryMatches(want, have string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	have = strings.ToLower(strings.TrimSpace(have))
	if want == "" {
		return true
	}
	if strings.Contains(have, want) || strings.Contains(want, have) {
		return true
	}
	if strings.Contains(want, "laptop") {
		for _, syn := range laptopSynonyms {
			if strings.Contains(have, syn) {
				return true
			}
		}
	}
	if strings.Contains(have, "laptop") {
		for _, syn := range laptopSynonyms {
			if strings.Contains(want, syn) {
				return true
			}
		}
	}
	return false
}
