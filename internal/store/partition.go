package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// PartitionStrategy selects between one global lexical index and one index
// per source label.
type PartitionStrategy string

const (
	// StrategySingle keeps all sources in one shared index.
	StrategySingle PartitionStrategy = "single"

	// StrategyBySource keeps one index per source so that a source with
	// systematically longer descriptive text cannot dominate a shared
	// term-frequency space. A fairness mechanism, not an optimization.
	StrategyBySource PartitionStrategy = "by-source"
)

// PartitionedLexicalIndex maintains one lexical index per source label.
type PartitionedLexicalIndex struct {
	mu     sync.RWMutex
	config LexicalConfig
	shards map[string]*BleveLexicalIndex
	closed bool
}

// NewPartitionedLexicalIndex creates an empty partitioned index. Shards are
// created lazily as sources appear.
func NewPartitionedLexicalIndex(config LexicalConfig) *PartitionedLexicalIndex {
	return &PartitionedLexicalIndex{
		config: config,
		shards: make(map[string]*BleveLexicalIndex),
	}
}

// IndexSource adds documents to the shard for the given source label,
// creating the shard on first use.
func (p *PartitionedLexicalIndex) IndexSource(ctx context.Context, source string, docs []*Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("index is closed")
	}

	shard, ok := p.shards[source]
	if !ok {
		var err error
		shard, err = NewBleveLexicalIndex(p.config)
		if err != nil {
			return fmt.Errorf("failed to create shard for source %q: %w", source, err)
		}
		p.shards[source] = shard
	}
	return shard.Index(ctx, docs)
}

// SearchAll queries every shard and returns one ranked list per source,
// keyed by source label. Shards with no hits still appear with an empty
// list so callers can interleave deterministically.
func (p *PartitionedLexicalIndex) SearchAll(ctx context.Context, query string, limit int) (map[string][]*LexicalResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, fmt.Errorf("index is closed")
	}

	results := make(map[string][]*LexicalResult, len(p.shards))
	for source, shard := range p.shards {
		hits, err := shard.Search(ctx, query, limit)
		if err != nil {
			return nil, fmt.Errorf("shard %q search failed: %w", source, err)
		}
		results[source] = hits
	}
	return results, nil
}

// Sources returns the shard labels in sorted order.
func (p *PartitionedLexicalIndex) Sources() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sources := make([]string, 0, len(p.shards))
	for s := range p.shards {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// DocCount returns the total document count across shards.
func (p *PartitionedLexicalIndex) DocCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	total := 0
	for _, shard := range p.shards {
		total += shard.DocCount()
	}
	return total
}

// Close closes all shards, returning the first error seen.
func (p *PartitionedLexicalIndex) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var firstErr error
	for _, shard := range p.shards {
		if err := shard.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
