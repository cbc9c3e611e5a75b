// Package cmd provides the CLI commands for OmniShop.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omnishop/omnishop/internal/config"
	"github.com/omnishop/omnishop/internal/corpus"
	"github.com/omnishop/omnishop/internal/embed"
	"github.com/omnishop/omnishop/internal/index"
	"github.com/omnishop/omnishop/internal/logging"
	"github.com/omnishop/omnishop/internal/search"
	"github.com/omnishop/omnishop/internal/store"
	"github.com/omnishop/omnishop/pkg/version"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	dataDir    string
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the omnishop CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "omnishop",
		Short: "Hybrid product search over marketplace corpora",
		Long: `OmniShop indexes semi-structured marketplace listings and answers
shopping queries with hybrid retrieval: BM25 keyword matching, embedding
similarity, and knowledge-graph expansion over brand and category links.

Run 'omnishop index corpus.md' to build an index, then 'omnishop search'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("omnishop version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <data-dir>/config.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: ~/.omnishop)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging installs the default slog logger before any command runs.
// Logs go to stderr so MCP stdio traffic on stdout stays clean.
func setupLogging(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		// Config errors are reported by the command itself with context.
		cfg = config.Default()
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig builds the effective configuration with flag overrides layered
// on top of file and environment values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Index.DataDir = dataDir
	}
	if debugMode {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newCoordinator assembles the build pipeline from configuration: parser,
// engine, embedder, record store, and blob cache.
func newCoordinator(cfg *config.Config) (*index.Coordinator, *search.Engine, error) {
	if err := os.MkdirAll(cfg.Index.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	engineOpts := []search.EngineOption{search.WithConfig(cfg.Search)}
	coordOpts := []index.CoordinatorOption{index.WithLexicalConfig(cfg.LexicalConfig())}

	if cfg.Index.EnableSemantic {
		embedder, err := embed.NewCachedEmbedder(embed.NewStaticEmbedder(), cfg.Index.EmbeddingCacheSize)
		if err != nil {
			return nil, nil, err
		}
		engineOpts = append(engineOpts, search.WithEmbedder(embedder))
		coordOpts = append(coordOpts, index.WithEmbedder(embedder))

		cache, err := index.NewFSCache(filepath.Join(cfg.Index.DataDir, "cache"))
		if err != nil {
			return nil, nil, err
		}
		coordOpts = append(coordOpts, index.WithCache(cache))
	}

	records, err := store.NewSQLiteRecordStore(recordDBPath(cfg))
	if err != nil {
		return nil, nil, err
	}
	coordOpts = append(coordOpts, index.WithRecordStore(records))

	engine := search.NewEngine(engineOpts...)
	parser := corpusParser(cfg)
	return index.NewCoordinator(parser, engine, coordOpts...), engine, nil
}

func corpusParser(cfg *config.Config) *corpus.Parser {
	return corpus.NewParser(cfg.ParserConfig())
}

func recordDBPath(cfg *config.Config) string {
	return filepath.Join(cfg.Index.DataDir, "records.db")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
