// Package index coordinates corpus loading and index construction: parse,
// facet inference, lexical/graph/vector builds, and the atomic snapshot
// swap into the search engine.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/omnishop/omnishop/internal/corpus"
	"github.com/omnishop/omnishop/internal/embed"
	"github.com/omnishop/omnishop/internal/facet"
	"github.com/omnishop/omnishop/internal/graph"
	"github.com/omnishop/omnishop/internal/search"
	"github.com/omnishop/omnishop/internal/store"
)

// BuildOptions control one index build.
type BuildOptions struct {
	// PartitionBySource builds one lexical index per marketplace so a
	// verbose source cannot dominate a shared term-frequency space.
	PartitionBySource bool
}

// Coordinator owns the build pipeline. Rebuilds replace the record set,
// lexical index, graph, and vector store together as one generation; a
// partial rebuild would let the graph and index drift apart.
type Coordinator struct {
	parser      *corpus.Parser
	engine      *search.Engine
	embedder    embed.Embedder
	recordStore store.RecordStore
	cache       Cache
	lexConfig   store.LexicalConfig
	logger      *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithEmbedder enables vector-store construction during builds.
func WithEmbedder(embedder embed.Embedder) CoordinatorOption {
	return func(c *Coordinator) {
		c.embedder = embedder
	}
}

// WithRecordStore persists parsed records on every build.
func WithRecordStore(rs store.RecordStore) CoordinatorOption {
	return func(c *Coordinator) {
		c.recordStore = rs
	}
}

// WithCache reuses embedding matrices across builds of identical corpora.
func WithCache(cache Cache) CoordinatorOption {
	return func(c *Coordinator) {
		c.cache = cache
	}
}

// WithLexicalConfig overrides BM25 tuning.
func WithLexicalConfig(cfg store.LexicalConfig) CoordinatorOption {
	return func(c *Coordinator) {
		c.lexConfig = cfg
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator wires a parser and engine into a build pipeline.
func NewCoordinator(parser *corpus.Parser, engine *search.Engine, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		parser:    parser,
		engine:    engine,
		lexConfig: store.DefaultLexicalConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCorpus parses raw corpus text and augments each record with inferred
// facets. Returns the records and the count of skipped blocks.
func (c *Coordinator) LoadCorpus(raw string) ([]corpus.ProductRecord, int) {
	records, skipped := c.parser.Parse(raw)
	for i := range records {
		rec := &records[i]
		facets := facet.Infer(rec.Title, rec.Category, rec.Brand)
		rec.Brand = facets.Brand
		if len(facets.Specs) > 0 {
			rec.ExtractedSpecs = facets.Specs
		}
	}
	return records, skipped
}

// Build constructs every derived structure from records and swaps the new
// snapshot into the engine atomically. Searches running during the build
// keep the prior generation. Zero records is not an error: the result is
// an empty index answering all queries with no hits, logged once.
func (c *Coordinator) Build(ctx context.Context, records []corpus.ProductRecord, opts BuildOptions) error {
	start := time.Now()

	if len(records) == 0 {
		c.logger.Warn("index_build_degenerate",
			slog.String("reason", "zero records; all queries will return empty results"))
	}

	snap := &search.Snapshot{
		Records: make(map[string]corpus.ProductRecord, len(records)),
		Order:   make([]string, 0, len(records)),
		Graph:   graph.New(),
	}
	for _, rec := range records {
		snap.Records[rec.ID] = rec
		snap.Order = append(snap.Order, rec.ID)
		snap.Graph.AddProduct(rec)
	}

	if err := c.buildLexical(ctx, snap, records, opts); err != nil {
		return err
	}

	if c.embedder != nil {
		if err := c.buildVectors(ctx, snap, records); err != nil {
			// Semantic indexing is optional; a failed vector build
			// degrades the generation to lexical-only.
			c.logger.Warn("vector_build_degraded", slog.String("error", err.Error()))
			snap.Vectors = nil
		}
	}

	if c.recordStore != nil {
		if err := c.recordStore.ReplaceAll(ctx, records); err != nil {
			return fmt.Errorf("failed to persist records: %w", err)
		}
	}

	c.engine.Swap(snap)

	c.logger.Info("index_build_completed",
		slog.Int("records", len(records)),
		slog.Bool("partitioned", opts.PartitionBySource),
		slog.Bool("semantic", snap.Vectors != nil),
		slog.Int("graph_nodes", snap.Graph.NodeCount()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// LoadAndBuild is the common path: parse, infer, build, swap.
func (c *Coordinator) LoadAndBuild(ctx context.Context, raw string, opts BuildOptions) (int, int, error) {
	records, skipped := c.LoadCorpus(raw)
	if err := c.Build(ctx, records, opts); err != nil {
		return 0, 0, err
	}
	return len(records), skipped, nil
}

// Rebuild reloads persisted records and rebuilds all derived structures.
func (c *Coordinator) Rebuild(ctx context.Context, opts BuildOptions) error {
	if c.recordStore == nil {
		return fmt.Errorf("no record store configured")
	}
	records, err := c.recordStore.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted records: %w", err)
	}
	return c.Build(ctx, records, opts)
}

func (c *Coordinator) buildLexical(ctx context.Context, snap *search.Snapshot, records []corpus.ProductRecord, opts BuildOptions) error {
	if opts.PartitionBySource {
		part := store.NewPartitionedLexicalIndex(c.lexConfig)
		bySource := make(map[string][]*store.Document)
		for _, rec := range records {
			bySource[rec.Source] = append(bySource[rec.Source], indexDocument(rec))
		}
		for source, docs := range bySource {
			if err := part.IndexSource(ctx, source, docs); err != nil {
				return fmt.Errorf("failed to index source %q: %w", source, err)
			}
		}
		snap.Partitioned = part
		return nil
	}

	idx, err := store.NewBleveLexicalIndex(c.lexConfig)
	if err != nil {
		return fmt.Errorf("failed to create lexical index: %w", err)
	}
	docs := make([]*store.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, indexDocument(rec))
	}
	if err := idx.Index(ctx, docs); err != nil {
		return fmt.Errorf("failed to index documents: %w", err)
	}
	snap.Lexical = idx
	return nil
}

func (c *Coordinator) buildVectors(ctx context.Context, snap *search.Snapshot, records []corpus.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}

	vectors, err := c.embeddings(ctx, records)
	if err != nil {
		return err
	}

	vs, err := store.NewHNSWStore(c.embedder.Dimensions())
	if err != nil {
		return err
	}
	for i, rec := range records {
		if err := vs.Add(ctx, rec.ID, vectors[i]); err != nil {
			return fmt.Errorf("failed to add vector for %s: %w", rec.ID, err)
		}
	}
	snap.Vectors = vs
	return nil
}

// embeddings computes (or loads from the blob cache) one vector per record.
func (c *Coordinator) embeddings(ctx context.Context, records []corpus.ProductRecord) ([][]float32, error) {
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = embeddingText(rec)
	}

	var key string
	if c.cache != nil {
		key = embeddingCacheKey(texts, c.embedder.ModelName())
		if vectors, ok := c.loadCachedVectors(key, len(records)); ok {
			c.logger.Debug("embedding_cache_hit", slog.String("key", key))
			return vectors, nil
		}
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed records: %w", err)
	}

	if c.cache != nil {
		if err := c.storeCachedVectors(key, vectors); err != nil {
			c.logger.Warn("embedding_cache_store_failed", slog.String("error", err.Error()))
		}
	}
	return vectors, nil
}

// indexDocument builds the lexical index text for a record. The title is
// doubled so title terms outweigh description terms at equal frequency.
func indexDocument(rec corpus.ProductRecord) *store.Document {
	var b strings.Builder
	b.WriteString(rec.Title)
	b.WriteString(" ")
	b.WriteString(rec.Title)
	b.WriteString(" ")
	b.WriteString(rec.Brand)
	b.WriteString(" ")
	b.WriteString(rec.Category)
	b.WriteString(" ")
	b.WriteString(rec.RawText)
	return &store.Document{ID: rec.ID, Content: b.String()}
}

// embeddingText is the semantic content of a record: title plus facets.
// Spec keys are sorted so the text, and with it the embedding, is
// deterministic for identical records.
func embeddingText(rec corpus.ProductRecord) string {
	parts := []string{rec.Title, rec.Brand, rec.Category}
	keys := make([]string, 0, len(rec.ExtractedSpecs))
	for k := range rec.ExtractedSpecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, rec.ExtractedSpecs[k])
	}
	return strings.Join(parts, " ")
}
