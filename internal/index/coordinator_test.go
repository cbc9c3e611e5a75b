package index

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnishop/omnishop/internal/corpus"
	"github.com/omnishop/omnishop/internal/embed"
	"github.com/omnishop/omnishop/internal/search"
	"github.com/omnishop/omnishop/internal/store"
)

const testCorpus = "## ASUS ROG Ryzen 7 16GB 512GB SSD\n" +
	"**DocID:** `st-001`\n" +
	"**Source:** StarTech\n" +
	"**Category:** Gaming Laptops\n" +
	"**Price:** 95,500৳\n" +
	"---\n" +
	"## Lenovo LOQ Core i7 16GB 512GB SSD RTX 3050\n" +
	"**DocID:** `dz-001`\n" +
	"**Source:** Daraz\n" +
	"**Category:** Gaming Laptops\n" +
	"**Price:** ৳156,030\n" +
	"---\n"

func newTestCoordinator(t *testing.T, opts ...CoordinatorOption) (*Coordinator, *search.Engine) {
	t.Helper()
	engine := search.NewEngine()
	parser := corpus.NewParser(corpus.DefaultParserConfig())
	return NewCoordinator(parser, engine, opts...), engine
}

// TS01: LoadCorpus parses and augments records with inferred facets
func TestCoordinator_LoadCorpus(t *testing.T) {
	c, _ := newTestCoordinator(t)

	records, skipped := c.LoadCorpus(testCorpus)
	require.Len(t, records, 2)
	assert.Equal(t, 0, skipped)

	asus := records[0]
	assert.Equal(t, "asus", asus.Brand)
	assert.Equal(t, "16GB", asus.ExtractedSpecs["RAM"])
	assert.Equal(t, "512GB SSD", asus.ExtractedSpecs["Storage"])
	assert.Equal(t, "Ryzen 7", asus.ExtractedSpecs["CPU"])
}

// TS02: End-to-end build and search
func TestCoordinator_BuildAndSearch(t *testing.T) {
	c, engine := newTestCoordinator(t)
	ctx := context.Background()

	n, skipped, err := c.LoadAndBuild(ctx, testCorpus, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, skipped)
	require.True(t, engine.Ready())

	results, err := engine.Search(ctx, "gaming laptop 16GB under 100000", search.Filters{MaxPrice: 100000}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "st-001", results[0].Record.ID)
}

// TS03: Idempotent builds yield identical search results
func TestCoordinator_IdempotentBuild(t *testing.T) {
	c, engine := newTestCoordinator(t)
	ctx := context.Background()

	records, _ := c.LoadCorpus(testCorpus)

	require.NoError(t, c.Build(ctx, records, BuildOptions{}))
	first, err := engine.Search(ctx, "gaming laptop 16gb", search.Filters{}, 10)
	require.NoError(t, err)

	require.NoError(t, c.Build(ctx, records, BuildOptions{}))
	second, err := engine.Search(ctx, "gaming laptop 16gb", search.Filters{}, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TS04: Zero records is a degenerate index, not an error
func TestCoordinator_EmptyBuild(t *testing.T) {
	c, engine := newTestCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.Build(ctx, nil, BuildOptions{}))
	require.True(t, engine.Ready())

	results, err := engine.Search(ctx, "anything", search.Filters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TS05: Searches during a rebuild observe a complete generation
func TestCoordinator_AtomicSwap(t *testing.T) {
	c, engine := newTestCoordinator(t)
	ctx := context.Background()

	records, _ := c.LoadCorpus(testCorpus)
	require.NoError(t, c.Build(ctx, records, BuildOptions{}))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			results, err := engine.Search(ctx, "gaming laptop", search.Filters{}, 10)
			// Either generation is complete: always both records
			assert.NoError(t, err)
			assert.Len(t, results, 2)
		}
	}()

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Build(ctx, records, BuildOptions{}))
	}
	close(stop)
	wg.Wait()
}

// TS06: Partitioned builds index each source separately
func TestCoordinator_PartitionedBuild(t *testing.T) {
	c, engine := newTestCoordinator(t)
	ctx := context.Background()

	_, _, err := c.LoadAndBuild(ctx, testCorpus, BuildOptions{PartitionBySource: true})
	require.NoError(t, err)

	snap := engine.Current()
	require.NotNil(t, snap.Partitioned)
	assert.Nil(t, snap.Lexical)
	assert.Equal(t, []string{"Daraz", "StarTech"}, snap.Partitioned.Sources())
}

// TS07: Records persist through the record store and support Rebuild
func TestCoordinator_RecordPersistence(t *testing.T) {
	rs, err := store.NewSQLiteRecordStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = rs.Close() }()

	c, engine := newTestCoordinator(t, WithRecordStore(rs))
	ctx := context.Background()

	records, _ := c.LoadCorpus(testCorpus)
	require.NoError(t, c.Build(ctx, records, BuildOptions{}))

	persisted, err := rs.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, persisted)

	// A fresh engine rebuilds from the persisted records alone
	engine2 := search.NewEngine()
	c2 := NewCoordinator(corpus.NewParser(corpus.DefaultParserConfig()), engine2, WithRecordStore(rs))
	require.NoError(t, c2.Rebuild(ctx, BuildOptions{}))

	want, err := engine.Search(ctx, "gaming laptop", search.Filters{}, 10)
	require.NoError(t, err)
	got, err := engine2.Search(ctx, "gaming laptop", search.Filters{}, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TS08: Semantic builds populate the vector store and reuse the blob cache
func TestCoordinator_SemanticBuildWithCache(t *testing.T) {
	cache, err := NewFSCache(t.TempDir())
	require.NoError(t, err)

	embedder, err := embed.NewCachedEmbedder(embed.NewStaticEmbedder(), 64)
	require.NoError(t, err)

	c, engine := newTestCoordinator(t, WithEmbedder(embedder), WithCache(cache))
	ctx := context.Background()

	records, _ := c.LoadCorpus(testCorpus)
	require.NoError(t, c.Build(ctx, records, BuildOptions{}))

	snap := engine.Current()
	require.NotNil(t, snap.Vectors)
	assert.Equal(t, 2, snap.Vectors.Size())

	// Second build hits the blob cache and produces the same vectors
	require.NoError(t, c.Build(ctx, records, BuildOptions{}))
	assert.Equal(t, 2, engine.Current().Vectors.Size())
}
