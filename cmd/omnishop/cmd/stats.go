package cmd

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"

	omnierr "github.com/omnishop/omnishop/internal/errors"
	"github.com/omnishop/omnishop/internal/index"
	"github.com/omnishop/omnishop/internal/output"
	"github.com/omnishop/omnishop/internal/search"
)

// CatalogStats is the JSON output format for stats.
type CatalogStats struct {
	Records     int            `json:"records"`
	BySource    map[string]int `json:"by_source"`
	ByCategory  map[string]int `json:"by_category"`
	Brands      int            `json:"brands"`
	WithPrice   int            `json:"with_price"`
	WithRating  int            `json:"with_rating"`
	GraphNodes  int            `json:"graph_nodes"`
	GraphEdges  int            `json:"graph_edges"`
	Partitioned bool           `json:"partitioned"`
	Semantic    bool           `json:"semantic"`
}

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and index statistics",
		Long: `Display statistics about the indexed catalog: record counts per
marketplace and category, facet coverage, and knowledge-graph size.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !fileExists(recordDBPath(cfg)) {
		return omnierr.New(omnierr.ErrCodeNotReady, "no index found; run 'omnishop index' first", nil)
	}

	coord, engine, err := newCoordinator(cfg)
	if err != nil {
		return err
	}
	buildOpts := index.BuildOptions{PartitionBySource: cfg.PartitionBySource()}
	if err := coord.Rebuild(ctx, buildOpts); err != nil {
		return err
	}

	stats := collectStats(engine.Current())

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("", "Records: %d (%d with price, %d with rating)",
		stats.Records, stats.WithPrice, stats.WithRating)
	out.Statusf("", "Brands: %d", stats.Brands)
	for _, source := range sortedKeys(stats.BySource) {
		out.Statusf("", "  %s: %d", source, stats.BySource[source])
	}
	out.Statusf("", "Categories: %d", len(stats.ByCategory))
	out.Statusf("", "Graph: %d nodes, %d edges", stats.GraphNodes, stats.GraphEdges)
	if stats.Partitioned {
		out.Status("", "Index strategy: by-source")
	} else {
		out.Status("", "Index strategy: single")
	}
	return nil
}

// collectStats derives catalog statistics from the current snapshot.
func collectStats(snap *search.Snapshot) CatalogStats {
	stats := CatalogStats{
		BySource:   make(map[string]int),
		ByCategory: make(map[string]int),
	}
	if snap == nil {
		return stats
	}

	brands := make(map[string]struct{})
	for _, rec := range snap.Records {
		stats.Records++
		stats.BySource[rec.Source]++
		stats.ByCategory[rec.Category]++
		brands[rec.Brand] = struct{}{}
		if rec.HasPrice() {
			stats.WithPrice++
		}
		if rec.Rating != nil {
			stats.WithRating++
		}
	}
	stats.Brands = len(brands)
	stats.Partitioned = snap.PartitionedMode()
	stats.Semantic = snap.Vectors != nil
	if snap.Graph != nil {
		stats.GraphNodes = snap.Graph.NodeCount()
		stats.GraphEdges = snap.Graph.EdgeCount()
	}
	return stats
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
