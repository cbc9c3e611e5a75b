package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omnishop/omnishop/internal/embed"
	"github.com/omnishop/omnishop/internal/facet"
	"github.com/omnishop/omnishop/internal/graph"
	"github.com/omnishop/omnishop/internal/store"
)

// DefaultTopK is the result count when the caller passes none.
const DefaultTopK = 10

// Engine ranks product records for a query. The active index generation is
// swapped atomically by reference, so concurrent searches observe either
// the prior complete snapshot or the new one, never a partial build.
type Engine struct {
	config   Config
	embedder embed.Embedder
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithConfig overrides the default ranking configuration.
func WithConfig(cfg Config) EngineOption {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithEmbedder enables semantic scoring. Without one the engine runs in
// lexical-only mode.
func WithEmbedder(embedder embed.Embedder) EngineOption {
	return func(e *Engine) {
		e.embedder = embedder
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine with no active snapshot. Search returns
// ErrNotReady until Swap installs a built index.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Swap installs a new index generation. In-flight searches keep the
// snapshot they loaded.
func (e *Engine) Swap(snap *Snapshot) {
	e.snapshot.Store(snap)
}

// Current returns the active snapshot, nil before the first build.
func (e *Engine) Current() *Snapshot {
	return e.snapshot.Load()
}

// Ready reports whether an index has been built.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Config returns the engine's ranking configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Search runs the full ranking pipeline: hard filters, parallel lexical
// and semantic scoring, min-max fusion, source interleaving, graph
// expansion, dedup, and truncation to topK.
func (e *Engine) Search(ctx context.Context, query string, filters Filters, topK int) ([]SearchResult, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryTokens := facet.Tokenize(query)
	if len(queryTokens) == 0 {
		return []SearchResult{}, nil
	}

	start := time.Now()

	perSource, single, semantic, err := e.parallelSearch(ctx, snap, query)
	if err != nil {
		return nil, err
	}

	var ranked []*candidate
	if snap.PartitionedMode() {
		ranked = e.rankPartitioned(snap, perSource, semantic, queryTokens, filters)
	} else {
		ranked = e.rankSingle(snap, single, semantic, queryTokens, filters)
	}

	if e.config.EnableGraphExpansion && snap.Graph != nil {
		ranked = e.expandWithSiblings(snap, ranked, filters)
	}

	results := e.finalize(snap, ranked, topK)

	e.logger.Debug("search_completed",
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.Bool("partitioned", snap.PartitionedMode()),
		slog.Bool("semantic", semantic != nil),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}

// parallelSearch runs lexical and semantic retrieval concurrently. A
// failing or absent semantic path degrades silently to lexical-only.
func (e *Engine) parallelSearch(ctx context.Context, snap *Snapshot, query string) (
	map[string][]*store.LexicalResult, []*store.LexicalResult, map[string]float64, error,
) {
	var (
		perSource map[string][]*store.LexicalResult
		single    []*store.LexicalResult
		semantic  map[string]float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if snap.PartitionedMode() {
			perSource, err = snap.Partitioned.SearchAll(gctx, query, e.config.CandidateLimit)
		} else if snap.Lexical != nil {
			single, err = snap.Lexical.Search(gctx, query, e.config.CandidateLimit)
		}
		if err != nil {
			return fmt.Errorf("lexical search failed: %w", err)
		}
		return nil
	})

	if e.embedder != nil && snap.Vectors != nil {
		g.Go(func() error {
			vec, err := e.embedder.Embed(gctx, query)
			if err != nil {
				e.logger.Warn("semantic_degraded",
					slog.String("stage", "embed"),
					slog.String("error", err.Error()))
				return nil
			}
			hits, err := snap.Vectors.Search(gctx, vec, e.config.CandidateLimit)
			if err != nil {
				e.logger.Warn("semantic_degraded",
					slog.String("stage", "vector_search"),
					slog.String("error", err.Error()))
				return nil
			}
			semantic = make(map[string]float64, len(hits))
			for _, hit := range hits {
				semantic[hit.DocID] = hit.Score
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return perSource, single, semantic, nil
}

// rankSingle fuses the global lexical list with semantic scores.
func (e *Engine) rankSingle(snap *Snapshot, lexical []*store.LexicalResult, semantic map[string]float64, queryTokens []string, filters Filters) []*candidate {
	cands := e.collectCandidates(snap, lexical, semantic, queryTokens, filters)
	fuse(cands, e.config)
	sortCandidates(cands)
	return cands
}

// rankPartitioned fuses the union of per-source hits, sorts each source's
// list, and interleaves them round-robin.
func (e *Engine) rankPartitioned(snap *Snapshot, perSource map[string][]*store.LexicalResult, semantic map[string]float64, queryTokens []string, filters Filters) []*candidate {
	var all []*store.LexicalResult
	for _, hits := range perSource {
		all = append(all, hits...)
	}
	cands := e.collectCandidates(snap, all, semantic, queryTokens, filters)
	fuse(cands, e.config)

	lists := make(map[string][]*candidate)
	for _, c := range cands {
		lists[c.source] = append(lists[c.source], c)
	}
	sources := make([]string, 0, len(lists))
	for src := range lists {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		sortCandidates(lists[src])
	}
	return interleave(sources, lists)
}

// collectCandidates merges lexical hits and semantic hits into one
// candidate set, applying hard filters and the title-overlap count.
func (e *Engine) collectCandidates(snap *Snapshot, lexical []*store.LexicalResult, semantic map[string]float64, queryTokens []string, filters Filters) []*candidate {
	byID := make(map[string]*candidate)

	add := func(id string) *candidate {
		if c, ok := byID[id]; ok {
			return c
		}
		rec, ok := snap.Records[id]
		if !ok {
			return nil
		}
		if !filters.passes(&rec) {
			return nil
		}
		titleTokens := facet.TokenSet(rec.Title)
		hits := 0
		for _, tok := range queryTokens {
			if _, ok := titleTokens[tok]; ok {
				hits++
			}
		}
		c := &candidate{id: id, source: rec.Source, titleHits: hits}
		byID[id] = c
		return c
	}

	for _, hit := range lexical {
		if c := add(hit.DocID); c != nil {
			c.lexical = hit.Score
			c.matchedTerms = hit.MatchedTerms
		}
	}
	for id, score := range semantic {
		_, hasLexical := byID[id]
		c := add(id)
		if c == nil {
			continue
		}
		// A vector hit with no lexical support must share at least one
		// query token with the title; the embedder scores every stored
		// vector, so unanchored hits are noise.
		if !hasLexical && c.titleHits == 0 {
			delete(byID, id)
			continue
		}
		c.semantic = score
	}

	cands := make([]*candidate, 0, len(byID))
	for _, c := range byID {
		cands = append(cands, c)
	}
	// Stable input order for fuse; final ordering happens after scoring.
	sort.Slice(cands, func(i, j int) bool { return cands[i].id < cands[j].id })
	return cands
}

// expandWithSiblings seeds graph expansion from the top-ranked candidates
// and appends unseen siblings as a capped tail. Injected siblings carry
// only their facet boost, so they never displace a directly matched
// candidate with a higher fused score.
func (e *Engine) expandWithSiblings(snap *Snapshot, ranked []*candidate, filters Filters) []*candidate {
	if len(ranked) == 0 {
		return ranked
	}

	seen := make(map[string]struct{}, len(ranked))
	for _, c := range ranked {
		seen[c.id] = struct{}{}
	}

	seedCount := e.config.SeedCount
	if seedCount > len(ranked) {
		seedCount = len(ranked)
	}

	injected := make(map[string]*candidate)
	for _, seed := range ranked[:seedCount] {
		for _, sib := range snap.Graph.Siblings(seed.id) {
			if _, dup := seen[sib.ID]; dup {
				continue
			}
			rec, ok := snap.Records[sib.ID]
			if !ok {
				// A graph id missing from the record map means the
				// build was not atomic; skip it.
				e.logger.Warn("inconsistent_graph_reference",
					slog.String("sibling_id", sib.ID),
					slog.String("seed_id", seed.id))
				continue
			}
			if !filters.passes(&rec) {
				continue
			}

			boost := e.config.CategoryBoost
			if sib.Via == graph.EdgeBrand {
				boost = e.config.BrandBoost
			}
			if c, ok := injected[sib.ID]; ok {
				if boost > c.score {
					c.score = boost
					c.via = sib.Via.String()
				}
				continue
			}
			injected[sib.ID] = &candidate{
				id:       sib.ID,
				source:   rec.Source,
				score:    boost,
				injected: true,
				via:      sib.Via.String(),
			}
		}
	}

	if len(injected) == 0 {
		return ranked
	}

	tail := make([]*candidate, 0, len(injected))
	for _, c := range injected {
		tail = append(tail, c)
	}
	sortCandidates(tail)
	if len(tail) > e.config.SiblingCap {
		tail = tail[:e.config.SiblingCap]
	}
	return append(ranked, tail...)
}

// finalize deduplicates by record id (first occurrence wins), truncates to
// topK, and materializes results.
func (e *Engine) finalize(snap *Snapshot, ranked []*candidate, topK int) []SearchResult {
	results := make([]SearchResult, 0, topK)
	seen := make(map[string]struct{}, topK)

	for _, c := range ranked {
		if len(results) >= topK {
			break
		}
		if _, dup := seen[c.id]; dup {
			continue
		}
		seen[c.id] = struct{}{}

		rec := snap.Records[c.id]
		rec.RelevanceScore = c.score
		results = append(results, SearchResult{
			Record:        rec,
			Score:         c.score,
			LexicalScore:  c.lexical,
			SemanticScore: c.semantic,
			Injected:      c.injected,
			Via:           c.via,
			MatchedTerms:  c.matchedTerms,
		})
	}
	return results
}
