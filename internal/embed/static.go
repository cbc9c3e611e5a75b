package embed

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/omnishop/omnishop/internal/facet"
)

const (
	// StaticDimensions is the vector size of the static embedder.
	StaticDimensions = 256

	tokenWeight = 0.7
	ngramWeight = 0.3
	ngramSize   = 3
)

// StaticEmbedder is a deterministic hash-based embedder. It captures token
// and character n-gram overlap rather than learned semantics, which keeps
// the semantic signal useful for product titles (shared model numbers,
// brand names) without any model host. Remote embedding services can
// replace it behind the Embedder interface.
type StaticEmbedder struct {
	dims int
}

// NewStaticEmbedder creates a static embedder with the default dimensions.
func NewStaticEmbedder() *StaticEmbedder {
	return &StaticEmbedder{dims: StaticDimensions}
}

// Embed generates a unit-length embedding for text. Identical input yields
// an identical vector on every run.
func (e *StaticEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)

	tokens := facet.Tokenize(text)
	for _, tok := range tokens {
		vec[e.hashToIndex(tok)] += tokenWeight
		for _, ngram := range charNgrams(tok, ngramSize) {
			vec[e.hashToIndex(ngram)] += ngramWeight
		}
	}

	normalize(vec)
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (e *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the vector size.
func (e *StaticEmbedder) Dimensions() int {
	return e.dims
}

// ModelName identifies this embedder.
func (e *StaticEmbedder) ModelName() string {
	return "static-hash"
}

func (e *StaticEmbedder) hashToIndex(s string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() % uint64(e.dims))
}

func charNgrams(token string, n int) []string {
	if len(token) < n {
		return nil
	}
	grams := make([]string, 0, len(token)-n+1)
	for i := 0; i+n <= len(token); i++ {
		grams = append(grams, token[i:i+n])
	}
	return grams
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= norm
	}
}

var _ Embedder = (*StaticEmbedder)(nil)
