package store

import (
	"context"
	"testing"

	index "github.com/blevesearch/bleve_index_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Basic indexing and search
func TestBleveLexicalIndex_IndexAndSearch(t *testing.T) {
	// Given: an in-memory index with two product documents
	idx, err := NewBleveLexicalIndex(DefaultLexicalConfig())
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	ctx := context.Background()
	docs := []*Document{
		{ID: "p1", Content: "ASUS ROG Strix gaming laptop Ryzen 7 16GB"},
		{ID: "p2", Content: "Cotton panjabi navy blue premium fabric"},
	}
	require.NoError(t, idx.Index(ctx, docs))

	// When: searching for laptop terms
	results, err := idx.Search(ctx, "gaming laptop", 10)

	// Then: only the laptop document matches
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].DocID)
	assert.Greater(t, results[0].Score, 0.0)
}

// TS02: Hyphenated query terms match unhyphenated corpus text
func TestBleveLexicalIndex_HyphenSplitting(t *testing.T) {
	idx, err := NewBleveLexicalIndex(DefaultLexicalConfig())
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, []*Document{
		{ID: "p1", Content: "Lenovo LOQ RTX 3050 gaming laptop"},
	}))

	// SKU punctuation in the query must not prevent a match
	results, err := idx.Search(ctx, "RTX-3050", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].DocID)
}

// TS03: Blank queries yield empty results, not errors
func TestBleveLexicalIndex_EmptyQuery(t *testing.T) {
	idx, err := NewBleveLexicalIndex(DefaultLexicalConfig())
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	results, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TS04: An empty index answers every query with zero hits
func TestBleveLexicalIndex_EmptyIndex(t *testing.T) {
	idx, err := NewBleveLexicalIndex(DefaultLexicalConfig())
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	results, err := idx.Search(context.Background(), "anything at all", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, idx.DocCount())
}

// TS05: Marketing stop words carry no ranking signal
func TestBleveLexicalIndex_StopWords(t *testing.T) {
	idx, err := NewBleveLexicalIndex(DefaultLexicalConfig())
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, []*Document{
		{ID: "p1", Content: "New hot sale best offer exclusive"},
		{ID: "p2", Content: "Logitech wireless mouse"},
	}))

	// A query of pure filler matches nothing
	results, err := idx.Search(ctx, "new hot sale", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TS06: Per-source shards answer independently
func TestPartitionedLexicalIndex(t *testing.T) {
	// Given: a partitioned index with one shard per marketplace
	p := NewPartitionedLexicalIndex(DefaultLexicalConfig())
	defer func() { _ = p.Close() }()

	ctx := context.Background()
	require.NoError(t, p.IndexSource(ctx, "StarTech", []*Document{
		{ID: "st1", Content: "ASUS gaming laptop Ryzen 7"},
	}))
	require.NoError(t, p.IndexSource(ctx, "Daraz", []*Document{
		{ID: "dz1", Content: "Lenovo gaming laptop Core i7"},
		{ID: "dz2", Content: "Cotton panjabi"},
	}))

	// When: searching across all shards
	results, err := p.SearchAll(ctx, "gaming laptop", 10)

	// Then: each source returns its own ranked list
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, results["StarTech"], 1)
	require.Len(t, results["Daraz"], 1)
	assert.Equal(t, "st1", results["StarTech"][0].DocID)
	assert.Equal(t, "dz1", results["Daraz"][0].DocID)

	assert.Equal(t, []string{"Daraz", "StarTech"}, p.Sources())
	assert.Equal(t, 3, p.DocCount())
}

// TS07: The index mapping selects bleve's bm25 scoring model
func TestCreateIndexMapping_ScoringModel(t *testing.T) {
	m, err := createIndexMapping(DefaultLexicalConfig())
	require.NoError(t, err)
	assert.Equal(t, index.BM25Scoring, m.ScoringModel)
}

// TS08: Config-supplied stop words replace the default list
func TestBleveLexicalIndex_CustomStopWords(t *testing.T) {
	cfg := DefaultLexicalConfig()
	cfg.StopWords = []string{"laptop"}
	idx, err := NewBleveLexicalIndex(cfg)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, []*Document{
		{ID: "p1", Content: "New gaming laptop"},
	}))

	// "laptop" is filtered by the custom list; "new" no longer is
	results, err := idx.Search(ctx, "laptop", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search(ctx, "new", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].DocID)
}

// TS09: Tokens below the minimum length carry no signal
func TestBleveLexicalIndex_MinTokenLength(t *testing.T) {
	cfg := DefaultLexicalConfig()
	cfg.MinTokenLength = 3
	idx, err := NewBleveLexicalIndex(cfg)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, []*Document{
		{ID: "p1", Content: "HP G9 laptop dock"},
	}))

	results, err := idx.Search(ctx, "g9", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search(ctx, "dock", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].DocID)
}
