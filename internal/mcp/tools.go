package mcp

import "github.com/omnishop/omnishop/internal/search"

// ProductSearchInput defines the input schema for the product_search tool.
type ProductSearchInput struct {
	Query    string  `json:"query" jsonschema:"the shopping query to execute"`
	MinPrice float64 `json:"min_price,omitempty" jsonschema:"exclude products without a known price of at least this value"`
	MaxPrice float64 `json:"max_price,omitempty" jsonschema:"exclude products with a known price above this value"`
	Category string  `json:"category,omitempty" jsonschema:"filter by product category (substring match)"`
	Source   string  `json:"source,omitempty" jsonschema:"filter by marketplace source (exact match)"`
	TopK     int     `json:"top_k,omitempty" jsonschema:"maximum number of results, default 10"`
}

// ProductSearchOutput defines the output schema for the product_search tool.
type ProductSearchOutput struct {
	Results []search.SearchResult `json:"results"`
}

// IndexStatusInput defines the input schema for the index_status tool (no parameters).
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for the index_status tool.
type IndexStatusOutput struct {
	Ready       bool     `json:"ready"`
	RecordCount int      `json:"record_count"`
	Sources     []string `json:"sources,omitempty"`
	GraphNodes  int      `json:"graph_nodes"`
	GraphEdges  int      `json:"graph_edges"`
	Partitioned bool     `json:"partitioned"`
	Semantic    bool     `json:"semantic"`
}
