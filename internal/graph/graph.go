// Package graph implements the product knowledge graph: an undirected
// adjacency structure connecting product nodes to namespaced brand and
// category facet nodes, used for sibling-expansion retrieval.
package graph

import (
	"sort"
	"strings"
	"sync"

	"github.com/omnishop/omnishop/internal/corpus"
)

// Facet node id namespaces. Prefixing keeps facet values from ever
// colliding with product ids.
const (
	BrandPrefix    = "BRAND:"
	CategoryPrefix = "CAT:"
)

// EdgeKind classifies the facet an edge runs through. Brand edges imply
// tighter product affinity than category edges.
type EdgeKind int

const (
	EdgeNone EdgeKind = iota
	EdgeCategory
	EdgeBrand
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeBrand:
		return "brand"
	case EdgeCategory:
		return "category"
	default:
		return "none"
	}
}

// Sibling is a product reachable from a seed through exactly one shared
// facet node, annotated with the strongest edge kind it was reached through.
type Sibling struct {
	ID  string
	Via EdgeKind
}

// Sentinel facet values that never create edges.
var (
	brandSentinels    = map[string]struct{}{"": {}, corpus.BrandGeneric: {}, "unknown": {}, "other": {}}
	categorySentinels = map[string]struct{}{"": {}, corpus.CategoryGeneral: {}, corpus.CategoryUnknown: {}}
)

// Graph is the undirected product/facet adjacency structure. It is built
// once per corpus load and read-only afterward.
type Graph struct {
	mu        sync.RWMutex
	adjacency map[string]map[string]struct{}
	products  int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string]map[string]struct{}),
	}
}

// AddProduct inserts a product node and links it to the facet nodes derived
// from its brand and category. Sentinel facet values create no edge;
// multiple products sharing a facet node is the fan-out mechanism for
// sibling discovery.
func (g *Graph) AddProduct(rec corpus.ProductRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.adjacency[rec.ID]; !exists {
		g.adjacency[rec.ID] = make(map[string]struct{})
		g.products++
	}

	brand := strings.ToLower(strings.TrimSpace(rec.Brand))
	if _, sentinel := brandSentinels[brand]; !sentinel {
		g.addEdge(rec.ID, BrandPrefix+brand)
	}

	category := strings.ToLower(strings.TrimSpace(rec.Category))
	if _, sentinel := categorySentinels[category]; !sentinel {
		g.addEdge(rec.ID, CategoryPrefix+category)
	}
}

// addEdge links two nodes both ways, creating nodes as needed.
// Caller holds the write lock.
func (g *Graph) addEdge(a, b string) {
	if g.adjacency[a] == nil {
		g.adjacency[a] = make(map[string]struct{})
	}
	if g.adjacency[b] == nil {
		g.adjacency[b] = make(map[string]struct{})
	}
	g.adjacency[a][b] = struct{}{}
	g.adjacency[b][a] = struct{}{}
}

// Neighbors returns the ids adjacent to a node, sorted.
func (g *Graph) Neighbors(nodeID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adj, ok := g.adjacency[nodeID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(adj))
	for id := range adj {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Siblings returns the two-hop product neighbors of a seed: the union, over
// each facet neighbor of the seed, of that facet's other product neighbors.
// A sibling reachable through both a brand and a category facet is
// annotated with the brand edge. Results are sorted by id for determinism.
func (g *Graph) Siblings(seedID string) []Sibling {
	g.mu.RLock()
	defer g.mu.RUnlock()

	facets, ok := g.adjacency[seedID]
	if !ok {
		return nil
	}

	best := make(map[string]EdgeKind)
	for facetID := range facets {
		kind := edgeKindOf(facetID)
		if kind == EdgeNone {
			continue
		}
		for productID := range g.adjacency[facetID] {
			if productID == seedID {
				continue
			}
			if kind > best[productID] {
				best[productID] = kind
			}
		}
	}

	siblings := make([]Sibling, 0, len(best))
	for id, via := range best {
		siblings = append(siblings, Sibling{ID: id, Via: via})
	}
	sort.Slice(siblings, func(i, j int) bool { return siblings[i].ID < siblings[j].ID })
	return siblings
}

// NodeCount returns total node count; ProductCount counts product nodes only.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.adjacency)
}

func (g *Graph) ProductCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.products
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	total := 0
	for _, adj := range g.adjacency {
		total += len(adj)
	}
	return total / 2
}

func edgeKindOf(nodeID string) EdgeKind {
	switch {
	case strings.HasPrefix(nodeID, BrandPrefix):
		return EdgeBrand
	case strings.HasPrefix(nodeID, CategoryPrefix):
		return EdgeCategory
	default:
		return EdgeNone
	}
}
