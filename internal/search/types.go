// Package search implements the fusion/ranking engine: lexical and
// semantic scoring, hard filters, source balancing, and graph expansion.
package search

import (
	"errors"

	"github.com/omnishop/omnishop/internal/corpus"
	"github.com/omnishop/omnishop/internal/graph"
	"github.com/omnishop/omnishop/internal/store"
)

// ErrNotReady is returned when Search is called before any index build has
// completed. Distinguishes "system not ready" from "no products found".
var ErrNotReady = errors.New("search engine not ready: no index built")

// Filters are the exclusionary constraints applied before scoring.
type Filters struct {
	// MinPrice excludes records without a known price of at least this
	// value. Zero means unset.
	MinPrice float64

	// MaxPrice excludes records whose known price exceeds it. Records
	// with unknown price pass; a missing price is not a zero-cost match.
	MaxPrice float64

	// Category matches by bidirectional substring against the record
	// category, with a laptop/macbook/notebook synonym carve-out.
	Category string

	// Source matches the record source exactly, case-insensitively.
	Source string
}

// SearchResult is one ranked record.
type SearchResult struct {
	Record corpus.ProductRecord `json:"record"`

	// Score is the final fused score used for ordering.
	Score float64 `json:"score"`

	LexicalScore  float64 `json:"lexical_score,omitempty"`
	SemanticScore float64 `json:"semantic_score,omitempty"`

	// Injected marks graph-expansion results that were not directly
	// matched by lexical or semantic scoring.
	Injected bool `json:"injected,omitempty"`

	// Via names the facet edge an injected sibling was reached through.
	Via string `json:"via,omitempty"`

	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// Weights control the fusion of normalized signal scores. Semantic
// similarity captures shopper intent better than keyword overlap, while
// keyword overlap still disambiguates exact model numbers.
type Weights struct {
	Semantic float64 `yaml:"semantic"`
	Lexical  float64 `yaml:"lexical"`
}

// Config carries the engine's ranking policy.
type Config struct {
	Weights Weights `yaml:"weights"`

	// TitleBoost is added per query token present in the record title.
	TitleBoost float64 `yaml:"title_boost"`

	// BrandBoost and CategoryBoost are the additive scores of injected
	// siblings; brand implies tighter affinity than category.
	BrandBoost    float64 `yaml:"brand_boost"`
	CategoryBoost float64 `yaml:"category_boost"`

	// SeedCount is how many top-ranked results seed graph expansion.
	SeedCount int `yaml:"seed_count"`

	// SiblingCap bounds the number of injected siblings per search.
	SiblingCap int `yaml:"sibling_cap"`

	// CandidateLimit bounds how many hits each signal source contributes
	// before fusion.
	CandidateLimit int `yaml:"candidate_limit"`

	// EnableGraphExpansion toggles sibling injection.
	EnableGraphExpansion bool `yaml:"enable_graph_expansion"`
}

// DefaultConfig returns the documented ranking defaults.
func DefaultConfig() Config {
	return Config{
		Weights:              Weights{Semantic: 0.7, Lexical: 0.3},
		TitleBoost:           0.05,
		BrandBoost:           0.3,
		CategoryBoost:        0.1,
		SeedCount:            3,
		SiblingCap:           5,
		CandidateLimit:       50,
		EnableGraphExpansion: true,
	}
}

// Snapshot is one immutable index generation: the record set and every
// structure derived from it, always rebuilt together. Searches run against
// a snapshot without locking.
type Snapshot struct {
	// Records maps id to record for every indexed product.
	Records map[string]corpus.ProductRecord

	// Order preserves corpus document order of record ids.
	Order []string

	// Lexical is the global index when the single strategy is active.
	Lexical store.LexicalIndex

	// Partitioned is the per-source index when partitioning is active.
	Partitioned *store.PartitionedLexicalIndex

	// Graph is the product knowledge graph.
	Graph *graph.Graph

	// Vectors is the optional embedding index; nil disables semantic
	// scoring for this generation.
	Vectors store.VectorStore
}

// PartitionedMode reports whether this snapshot uses per-source indexes.
func (s *Snapshot) PartitionedMode() bool {
	return s.Partitioned != nil
}
