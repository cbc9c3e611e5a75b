package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnishop/omnishop/internal/search"
)

// TS01: Price-filtered search returns only the affordable product
func TestSearchCmd_MaxPriceFilter(t *testing.T) {
	corpusPath, dataDir := writeCorpus(t)
	_, err := execute(t, "index", corpusPath, "--data-dir", dataDir)
	require.NoError(t, err)

	out, err := execute(t, "search", "gaming", "laptop", "16GB",
		"--data-dir", dataDir, "--max-price", "100000", "--format", "json")
	require.NoError(t, err)

	var results []search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "st-001", results[0].Record.ID)
}

// TS02: Unfiltered search surfaces both marketplaces
func TestSearchCmd_BothSources(t *testing.T) {
	corpusPath, dataDir := writeCorpus(t)
	_, err := execute(t, "index", corpusPath, "--data-dir", dataDir)
	require.NoError(t, err)

	out, err := execute(t, "search", "gaming", "laptop", "16GB",
		"--data-dir", dataDir, "--format", "json")
	require.NoError(t, err)

	var results []search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	sources := map[string]bool{}
	for _, r := range results {
		sources[r.Record.Source] = true
	}
	assert.True(t, sources["StarTech"])
	assert.True(t, sources["Daraz"])
}

// TS03: Text output renders titles and prices
func TestSearchCmd_TextOutput(t *testing.T) {
	corpusPath, dataDir := writeCorpus(t)
	_, err := execute(t, "index", corpusPath, "--data-dir", dataDir)
	require.NoError(t, err)

	out, err := execute(t, "search", "lenovo", "--data-dir", dataDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Lenovo LOQ")
	assert.Contains(t, out, "[Daraz]")
	assert.Contains(t, out, "৳156,030")
}

// TS04: Searching without an index fails with a hint
func TestSearchCmd_NoIndex(t *testing.T) {
	_, dataDir := writeCorpus(t)

	_, err := execute(t, "search", "laptop", "--data-dir", dataDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "omnishop index")
}

// TS05: Source filter narrows to one marketplace
func TestSearchCmd_SourceFilter(t *testing.T) {
	corpusPath, dataDir := writeCorpus(t)
	_, err := execute(t, "index", corpusPath, "--data-dir", dataDir)
	require.NoError(t, err)

	out, err := execute(t, "search", "gaming", "laptop",
		"--data-dir", dataDir, "--source", "daraz", "--format", "json")
	require.NoError(t, err)

	var results []search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "Daraz", r.Record.Source)
	}
}
