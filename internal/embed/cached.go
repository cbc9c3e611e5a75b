package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the embedding LRU cache.
const DefaultCacheSize = 4096

// CachedEmbedder wraps an Embedder with an in-memory LRU cache keyed by a
// content hash of the input text. Product corpora re-embed the same titles
// on every rebuild, so the cache pays for itself quickly.
type CachedEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps inner with an LRU cache of the given size.
func NewCachedEmbedder(inner Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector when available, delegating otherwise.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// EmbedBatch embeds only the cache misses, preserving input order.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var uncached []string
	var uncachedIndices []int

	for i, text := range texts {
		if vec, ok := c.cache.Get(c.cacheKey(text)); ok {
			vectors[i] = vec
		} else {
			uncached = append(uncached, text)
			uncachedIndices = append(uncachedIndices, i)
		}
	}

	if len(uncached) > 0 {
		fresh, err := c.inner.EmbedBatch(ctx, uncached)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(uncached) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(uncached))
		}
		for j, vec := range fresh {
			i := uncachedIndices[j]
			vectors[i] = vec
			c.cache.Add(c.cacheKey(texts[i]), vec)
		}
	}

	return vectors, nil
}

// Dimensions returns the wrapped embedder's dimensionality.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// ModelName returns the wrapped embedder's model name.
func (c *CachedEmbedder) ModelName() string {
	return c.inner.ModelName()
}

// Len returns the number of cached entries.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text + "\x00" + c.inner.ModelName()))
	return hex.EncodeToString(sum[:])
}

var _ Embedder = (*CachedEmbedder)(nil)
