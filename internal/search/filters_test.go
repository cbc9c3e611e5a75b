package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omnishop/omnishop/internal/corpus"
)

// TS01: Price filter semantics around unknown prices
func TestFilters_Price(t *testing.T) {
	known := &corpus.ProductRecord{ID: "k", Price: 500}
	unknown := &corpus.ProductRecord{ID: "u"}

	// Max-price excludes only known prices above the bound
	f := Filters{MaxPrice: 400}
	assert.False(t, f.passes(known))
	assert.True(t, f.passes(unknown), "unknown price is not a zero-cost match")

	f = Filters{MaxPrice: 600}
	assert.True(t, f.passes(known))

	// A positive min-price requires a known price
	f = Filters{MinPrice: 100}
	assert.True(t, f.passes(known))
	assert.False(t, f.passes(unknown))

	f = Filters{MinPrice: 600}
	assert.False(t, f.passes(known))
}

// TS02: Source filter is exact and case-insensitive
func TestFilters_Source(t *testing.T) {
	rec := &corpus.ProductRecord{ID: "r", Source: "StarTech"}

	assert.True(t, Filters{Source: "startech"}.passes(rec))
	assert.False(t, Filters{Source: "star"}.passes(rec))
	assert.True(t, Filters{}.passes(rec))
}

// TS03: Category substring match with the laptop synonym carve-out
func TestCategoryMatches(t *testing.T) {
	tests := []struct {
		name string
		want string
		have string
		ok   bool
	}{
		{"exact", "gaming laptops", "gaming laptops", true},
		{"substring forward", "laptop", "gaming laptops", true},
		{"substring backward", "gaming laptops deals", "gaming laptops", true},
		{"laptop matches macbook", "laptop", "macbook", true},
		{"laptop matches notebook", "gaming laptop", "notebooks", true},
		{"macbook query matches laptop category", "macbook", "laptops", true},
		{"unrelated", "laptop", "fashion", false},
		{"empty matches all", "", "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, categoryMatches(tt.want, tt.have))
		})
	}
}
