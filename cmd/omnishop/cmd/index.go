package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	omnierr "github.com/omnishop/omnishop/internal/errors"
	"github.com/omnishop/omnishop/internal/index"
	"github.com/omnishop/omnishop/internal/output"
)

// indexOptions holds CLI flags for index.
type indexOptions struct {
	bySource bool
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index [corpus-file]",
		Short: "Parse a product corpus and build the search index",
		Long: `Parse a markdown product corpus into normalized records, infer brand
and spec facets, and build the lexical index, knowledge graph, and
embedding store. Records are persisted so later searches can rebuild
without the corpus file.

Examples:
  omnishop index products.md
  omnishop index products.md --by-source
  OMNISHOP_CORPUS=products.md omnishop index`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runIndex(cmd.Context(), cmd, path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.bySource, "by-source", false, "Build one lexical index per marketplace")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, path string, opts indexOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if path != "" {
		cfg.Corpus.Path = path
	}
	if cfg.Corpus.Path == "" {
		return fmt.Errorf("no corpus file given; pass a path or set OMNISHOP_CORPUS")
	}

	raw, err := os.ReadFile(cfg.Corpus.Path)
	if err != nil {
		return omnierr.CorpusError(fmt.Sprintf("failed to read corpus %s", cfg.Corpus.Path), err)
	}

	coord, engine, err := newCoordinator(cfg)
	if err != nil {
		return err
	}

	slog.Info("index_started",
		slog.String("corpus", cfg.Corpus.Path),
		slog.Bool("by_source", opts.bySource))

	start := time.Now()
	buildOpts := index.BuildOptions{PartitionBySource: opts.bySource || cfg.PartitionBySource()}
	count, skipped, err := coord.LoadAndBuild(ctx, string(raw), buildOpts)
	if err != nil {
		return omnierr.New(omnierr.ErrCodeIndexFailed, "index build failed", err)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("", "Indexed %d products in %s", count, time.Since(start).Round(time.Millisecond))
	if skipped > 0 {
		out.Warning(fmt.Sprintf("Skipped %d malformed blocks", skipped))
	}
	if snap := engine.Current(); snap != nil && snap.Graph != nil {
		out.Statusf("", "Knowledge graph: %d nodes, %d edges",
			snap.Graph.NodeCount(), snap.Graph.EdgeCount())
	}
	if count == 0 {
		out.Warning("Corpus produced no records; searches will return nothing")
	}
	return nil
}
