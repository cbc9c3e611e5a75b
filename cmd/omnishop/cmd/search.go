package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	omnierr "github.com/omnishop/omnishop/internal/errors"
	"github.com/omnishop/omnishop/internal/index"
	"github.com/omnishop/omnishop/internal/output"
	"github.com/omnishop/omnishop/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit    int
	minPrice float64
	maxPrice float64
	category string
	source   string
	format   string // "text", "json"
	bySource bool
	noGraph  bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed product catalog",
		Long: `Search indexed products with hybrid ranking.

Combines BM25 keyword matching and embedding similarity, then expands
the top results with knowledge-graph siblings sharing a brand or
category.

Examples:
  omnishop search "gaming laptop 16GB"
  omnishop search "budget phone" --max-price 30000
  omnishop search "ssd" --source StarTech --format json
  omnishop search "laptop" --by-source`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", search.DefaultTopK, "Maximum number of results")
	cmd.Flags().Float64Var(&opts.minPrice, "min-price", 0, "Exclude products priced below this (requires a known price)")
	cmd.Flags().Float64Var(&opts.maxPrice, "max-price", 0, "Exclude products priced above this")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Filter by category (substring match)")
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "Filter by marketplace source")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.bySource, "by-source", false, "Rank each marketplace separately and interleave")
	cmd.Flags().BoolVar(&opts.noGraph, "no-graph", false, "Disable knowledge-graph sibling expansion")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.noGraph {
		cfg.Search.EnableGraphExpansion = false
	}

	if !fileExists(recordDBPath(cfg)) {
		return omnierr.New(omnierr.ErrCodeNotReady, "no index found; run 'omnishop index' first", nil)
	}

	coord, engine, err := newCoordinator(cfg)
	if err != nil {
		return err
	}

	// Rebuild in memory from persisted records. Index builds are cheap at
	// catalog scale, so there is no long-lived server to query.
	buildOpts := index.BuildOptions{PartitionBySource: opts.bySource || cfg.PartitionBySource()}
	if err := coord.Rebuild(ctx, buildOpts); err != nil {
		return err
	}

	filters := search.Filters{
		MinPrice: opts.minPrice,
		MaxPrice: opts.maxPrice,
		Category: opts.category,
		Source:   opts.source,
	}

	slog.Info("search_started", slog.String("query", query), slog.Int("limit", opts.limit))
	results, err := engine.Search(ctx, query, filters, opts.limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	slog.Info("search_completed", slog.Int("results", len(results)))

	switch opts.format {
	case "json":
		if results == nil {
			results = []search.SearchResult{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	default:
		output.New(cmd.OutOrStdout()).Results(query, results)
		return nil
	}
}
