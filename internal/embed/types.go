// Package embed provides embedding generation for semantic product search.
package embed

import "context"

// Embedder converts text to dense vectors. Implementations must be
// deterministic for identical inputs.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimensionality.
	Dimensions() int

	// ModelName identifies the embedding model.
	ModelName() string
}
