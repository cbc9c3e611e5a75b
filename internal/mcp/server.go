// Package mcp exposes the retrieval engine to answer generators over the
// Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omnishop/omnishop/internal/search"
)

// MaxTopK bounds how many records one tool call can request.
const MaxTopK = 50

// Server wires the search engine into an MCP server.
type Server struct {
	engine  *search.Engine
	mcp     *mcp.Server
	logger  *slog.Logger
	name    string
	version string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server exposing product_search and index_status.
func NewServer(engine *search.Engine, version string, opts ...ServerOption) *Server {
	s := &Server{
		engine:  engine,
		logger:  slog.Default(),
		name:    "omnishop",
		version: version,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    s.name,
			Version: s.version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "product_search",
		Description: "Search the product catalog with hybrid lexical/semantic ranking, price and category filters, and related-product graph expansion. Returns ranked product records as JSON.",
	}, s.productSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Check whether the product index is built and report record, source, and knowledge-graph counts. Use before searching to verify readiness.",
	}, s.indexStatusHandler)

	s.logger.Info("mcp_tools_registered", slog.Int("count", 2))
}

// productSearchHandler is the MCP SDK handler for the product_search tool.
func (s *Server) productSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input ProductSearchInput) (
	*mcp.CallToolResult,
	ProductSearchOutput,
	error,
) {
	if input.Query == "" {
		return nil, ProductSearchOutput{}, fmt.Errorf("query parameter is required")
	}

	filters := search.Filters{
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Category: input.Category,
		Source:   input.Source,
	}

	results, err := s.engine.Search(ctx, input.Query, filters, clampTopK(input.TopK))
	if err != nil {
		return nil, ProductSearchOutput{}, err
	}
	if results == nil {
		results = []search.SearchResult{}
	}
	return nil, ProductSearchOutput{Results: results}, nil
}

// indexStatusHandler is the MCP SDK handler for the index_status tool.
func (s *Server) indexStatusHandler(ctx context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	out := IndexStatusOutput{Ready: s.engine.Ready()}

	snap := s.engine.Current()
	if snap == nil {
		return nil, out, nil
	}

	out.RecordCount = len(snap.Records)
	out.Partitioned = snap.PartitionedMode()
	out.Semantic = snap.Vectors != nil
	if snap.Partitioned != nil {
		out.Sources = snap.Partitioned.Sources()
	}
	if snap.Graph != nil {
		out.GraphNodes = snap.Graph.NodeCount()
		out.GraphEdges = snap.Graph.EdgeCount()
	}
	return nil, out, nil
}

// Serve runs the server over stdio until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp_server_started",
		slog.String("name", s.name),
		slog.String("version", s.version))

	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("mcp_server_stopped")
	return nil
}

func clampTopK(n int) int {
	if n <= 0 {
		return search.DefaultTopK
	}
	if n > MaxTopK {
		return MaxTopK
	}
	return n
}
