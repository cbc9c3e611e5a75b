package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnishop/omnishop/internal/corpus"
)

func buildTestGraph() *Graph {
	g := New()
	g.AddProduct(corpus.ProductRecord{ID: "p1", Brand: "asus", Category: "gaming laptops"})
	g.AddProduct(corpus.ProductRecord{ID: "p2", Brand: "asus", Category: "monitors"})
	g.AddProduct(corpus.ProductRecord{ID: "p3", Brand: "lenovo", Category: "gaming laptops"})
	g.AddProduct(corpus.ProductRecord{ID: "p4", Brand: "generic", Category: "general"})
	return g
}

// TS01: Products link to namespaced facet nodes
func TestGraph_AddProduct(t *testing.T) {
	g := buildTestGraph()

	assert.Equal(t, []string{"BRAND:asus", "CAT:gaming laptops"}, g.Neighbors("p1"))
	assert.ElementsMatch(t, []string{"p1", "p2"}, g.Neighbors("BRAND:asus"))
	assert.Equal(t, 4, g.ProductCount())
}

// TS02: Sentinel facets create no edges
func TestGraph_SentinelExclusion(t *testing.T) {
	g := buildTestGraph()

	// p4 carries only sentinel facets, so it is isolated
	assert.Empty(t, g.Neighbors("p4"))
	assert.Empty(t, g.Neighbors("BRAND:generic"))
	assert.Empty(t, g.Siblings("p4"))
}

// TS03: Two-hop siblings with brand edges outranking category edges
func TestGraph_Siblings(t *testing.T) {
	g := buildTestGraph()

	// p1 reaches p2 via the asus brand node and p3 via the category node
	siblings := g.Siblings("p1")
	require.Len(t, siblings, 2)
	assert.Equal(t, Sibling{ID: "p2", Via: EdgeBrand}, siblings[0])
	assert.Equal(t, Sibling{ID: "p3", Via: EdgeCategory}, siblings[1])
}

// TS04: A sibling reachable via both facets is annotated with brand
func TestGraph_SiblingStrongestEdge(t *testing.T) {
	g := New()
	g.AddProduct(corpus.ProductRecord{ID: "a", Brand: "asus", Category: "laptops"})
	g.AddProduct(corpus.ProductRecord{ID: "b", Brand: "asus", Category: "laptops"})

	siblings := g.Siblings("a")
	require.Len(t, siblings, 1)
	assert.Equal(t, Sibling{ID: "b", Via: EdgeBrand}, siblings[0])
}

// TS05: Unknown seeds yield no siblings
func TestGraph_UnknownSeed(t *testing.T) {
	g := buildTestGraph()
	assert.Nil(t, g.Siblings("nope"))
}
