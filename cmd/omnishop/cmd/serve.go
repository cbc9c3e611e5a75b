package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/omnishop/omnishop/internal/index"
	"github.com/omnishop/omnishop/internal/mcp"
	"github.com/omnishop/omnishop/pkg/version"
)

// serveOptions holds CLI flags for serve.
type serveOptions struct {
	corpusPath string
	bySource   bool
	watch      bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run the Model Context Protocol server exposing product_search and
index_status tools over stdio.

With --corpus the corpus is parsed at startup; otherwise the index is
rebuilt from previously persisted records. With --watch the corpus file
is monitored and the index rebuilt on change; in-flight searches keep
the previous index generation.

Stdout carries JSON-RPC exclusively. All logs go to stderr or the
configured log file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.corpusPath, "corpus", "", "Corpus file to index at startup")
	cmd.Flags().BoolVar(&opts.bySource, "by-source", false, "Build one lexical index per marketplace")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Rebuild the index when the corpus file changes")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.corpusPath != "" {
		cfg.Corpus.Path = opts.corpusPath
	}

	coord, engine, err := newCoordinator(cfg)
	if err != nil {
		return err
	}
	buildOpts := index.BuildOptions{PartitionBySource: opts.bySource || cfg.PartitionBySource()}

	switch {
	case cfg.Corpus.Path != "":
		raw, err := os.ReadFile(cfg.Corpus.Path)
		if err != nil {
			return fmt.Errorf("failed to read corpus: %w", err)
		}
		count, skipped, err := coord.LoadAndBuild(ctx, string(raw), buildOpts)
		if err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}
		slog.Info("serve_index_built", slog.Int("records", count), slog.Int("skipped", skipped))
	case fileExists(recordDBPath(cfg)):
		if err := coord.Rebuild(ctx, buildOpts); err != nil {
			return fmt.Errorf("index rebuild failed: %w", err)
		}
	default:
		// Serving without an index is allowed; tools report not-ready
		// until a corpus arrives.
		slog.Warn("serve_no_index", slog.String("hint", "run 'omnishop index' or pass --corpus"))
	}

	server := mcp.NewServer(engine, version.Version)

	g, ctx := errgroup.WithContext(ctx)
	if opts.watch && cfg.Corpus.Path != "" {
		watcher := index.NewCorpusWatcher(cfg.Corpus.Path, func(ctx context.Context, raw string) error {
			count, skipped, err := coord.LoadAndBuild(ctx, raw, buildOpts)
			if err != nil {
				return err
			}
			slog.Info("corpus_reloaded", slog.Int("records", count), slog.Int("skipped", skipped))
			return nil
		})
		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		return server.Serve(ctx)
	})
	return g.Wait()
}
