package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnishop/omnishop/internal/corpus"
	"github.com/omnishop/omnishop/internal/index"
	"github.com/omnishop/omnishop/internal/search"
)

const testCorpus = "## ASUS ROG Ryzen 7 16GB 512GB SSD\n" +
	"**DocID:** `st-001`\n**Source:** StarTech\n**Category:** Gaming Laptops\n**Price:** 95,500৳\n---\n" +
	"## Lenovo LOQ Core i7 16GB 512GB SSD RTX 3050\n" +
	"**DocID:** `dz-001`\n**Source:** Daraz\n**Category:** Gaming Laptops\n**Price:** ৳156,030\n---\n"

func builtServer(t *testing.T) *Server {
	t.Helper()
	engine := search.NewEngine()
	coord := index.NewCoordinator(corpus.NewParser(corpus.DefaultParserConfig()), engine)
	_, _, err := coord.LoadAndBuild(context.Background(), testCorpus, index.BuildOptions{})
	require.NoError(t, err)
	return NewServer(engine, "test")
}

// TS01: product_search returns ranked, filtered records
func TestServer_ProductSearch(t *testing.T) {
	s := builtServer(t)

	_, out, err := s.productSearchHandler(context.Background(), nil, ProductSearchInput{
		Query:    "gaming laptop 16GB",
		MaxPrice: 100000,
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "st-001", out.Results[0].Record.ID)
}

// TS02: Missing query is an invalid call
func TestServer_ProductSearchRequiresQuery(t *testing.T) {
	s := builtServer(t)

	_, _, err := s.productSearchHandler(context.Background(), nil, ProductSearchInput{})
	assert.Error(t, err)
}

// TS03: top_k is clamped
func TestClampTopK(t *testing.T) {
	assert.Equal(t, search.DefaultTopK, clampTopK(0))
	assert.Equal(t, 5, clampTopK(5))
	assert.Equal(t, MaxTopK, clampTopK(10000))
}

// TS04: index_status reports readiness and counts
func TestServer_IndexStatus(t *testing.T) {
	s := builtServer(t)

	_, out, err := s.indexStatusHandler(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.True(t, out.Ready)
	assert.Equal(t, 2, out.RecordCount)
	assert.Greater(t, out.GraphNodes, 2)
	assert.False(t, out.Partitioned)
}

// TS05: An unbuilt engine reports not ready instead of failing
func TestServer_IndexStatusNotReady(t *testing.T) {
	s := NewServer(search.NewEngine(), "test")

	_, out, err := s.indexStatusHandler(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.False(t, out.Ready)
	assert.Zero(t, out.RecordCount)
}
