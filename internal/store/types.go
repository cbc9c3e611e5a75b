// Package store provides the persistence and index backends: the bleve
// lexical index, the HNSW vector store, and the sqlite record store.
package store

import (
	"context"
	"fmt"

	"github.com/omnishop/omnishop/internal/corpus"
)

// Document is one indexable unit of product text.
type Document struct {
	ID      string
	Content string
}

// LexicalResult is one BM25 hit.
type LexicalResult struct {
	DocID        string
	Score        float64
	MatchedTerms []string
}

// VectorResult is one similarity hit from the vector store.
type VectorResult struct {
	DocID string
	Score float64
}

// LexicalConfig tunes the analysis chain of the BM25 index. StopWords
// replaces the default marketing list when non-empty; MinTokenLength drops
// shorter tokens at both index and query time.
type LexicalConfig struct {
	StopWords      []string
	MinTokenLength int
}

// DefaultLexicalConfig returns the stock analysis chain.
func DefaultLexicalConfig() LexicalConfig {
	return LexicalConfig{
		StopWords:      DefaultMarketingStopWords,
		MinTokenLength: 1,
	}
}

// LexicalIndex ranks documents by BM25-style term relevance.
type LexicalIndex interface {
	Index(ctx context.Context, docs []*Document) error
	Search(ctx context.Context, query string, limit int) ([]*LexicalResult, error)
	DocCount() int
	Close() error
}

// VectorStore holds embedding vectors for similarity search.
type VectorStore interface {
	Add(ctx context.Context, id string, vector []float32) error
	Search(ctx context.Context, vector []float32, limit int) ([]*VectorResult, error)
	Size() int
	Close() error
}

// RecordStore persists parsed product records so a reload reconstructs the
// identical record list.
type RecordStore interface {
	ReplaceAll(ctx context.Context, records []corpus.ProductRecord) error
	LoadAll(ctx context.Context) ([]corpus.ProductRecord, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// ErrDimensionMismatch reports a vector whose length differs from the
// store's configured dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
