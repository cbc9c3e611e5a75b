// Package corpus parses semi-structured markdown product listings into
// normalized ProductRecord values.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Known marketplace labels. The set is open-ended; these two get URL
// base-origin normalization.
const (
	SourceStarTech = "StarTech"
	SourceDaraz    = "Daraz"
)

// Sentinel facet values meaning "nothing informative extracted".
const (
	BrandGeneric    = "generic"
	CategoryGeneral = "general"
	CategoryUnknown = "unknown"
)

// Rating is an optional customer rating parsed from a listing block.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ProductRecord is one marketplace listing. Records are built once per
// corpus load and are immutable afterward; RelevanceScore is the only
// per-query field and is never part of persistent identity.
type ProductRecord struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Source         string            `json:"source"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Price          float64           `json:"price"`
	URL            string            `json:"url,omitempty"`
	RawText        string            `json:"raw_text"`
	ExtractedSpecs map[string]string `json:"extracted_specs,omitempty"`
	Rating         *Rating           `json:"rating,omitempty"`

	// RelevanceScore is assigned per query by the search engine.
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// HasPrice reports whether a usable price was parsed. A zero price means
// "unknown", never "free".
func (r *ProductRecord) HasPrice() bool {
	return r.Price > 0
}

// DeriveID computes the fallback record id when no explicit DocID tag is
// present: the first 12 hex characters of SHA-256 over title and url.
func DeriveID(title, url string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + url))
	return hex.EncodeToString(sum[:])[:12]
}

// DisambiguateID re-derives an id that collided with an earlier record by
// mixing in the full block content.
func DisambiguateID(id, block string) string {
	sum := sha256.Sum256([]byte(id + "\x00" + block))
	return hex.EncodeToString(sum[:])[:12]
}

// NormalizeFacet lowercases and trims a facet value for use as an index key.
func NormalizeFacet(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
