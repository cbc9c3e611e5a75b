package store

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWStore is an in-memory vector store backed by an HNSW graph. Record
// ids are strings; the graph wants integer keys, so the store keeps a
// bidirectional id mapping.
type HNSWStore struct {
	mu      sync.RWMutex
	graph   *hnsw.Graph[uint64]
	dims    int
	idToKey map[string]uint64
	keyToID map[uint64]string
	nextKey uint64
	closed  bool
}

// NewHNSWStore creates a vector store for unit-length vectors of the given
// dimensionality.
func NewHNSWStore(dims int) (*HNSWStore, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %d", dims)
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance

	return &HNSWStore{
		graph:   graph,
		dims:    dims,
		idToKey: make(map[string]uint64),
		keyToID: make(map[uint64]string),
	}, nil
}

// Add inserts a vector under the given record id. Vectors are normalized
// in place before insertion; re-adding an id replaces its vector.
func (h *HNSWStore) Add(ctx context.Context, id string, vector []float32) error {
	if len(vector) != h.dims {
		return &ErrDimensionMismatch{Expected: h.dims, Got: len(vector)}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("vector store is closed")
	}

	normalizeVectorInPlace(vector)

	key, ok := h.idToKey[id]
	if !ok {
		key = h.nextKey
		h.nextKey++
		h.idToKey[id] = key
		h.keyToID[key] = id
	} else {
		// The graph rejects duplicate keys; drop the old node first.
		h.graph.Delete(key)
	}

	h.graph.Add(hnsw.MakeNode(key, vector))
	return nil
}

// Search returns up to limit nearest records by cosine similarity.
func (h *HNSWStore) Search(ctx context.Context, vector []float32, limit int) ([]*VectorResult, error) {
	if len(vector) != h.dims {
		return nil, &ErrDimensionMismatch{Expected: h.dims, Got: len(vector)}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, fmt.Errorf("vector store is closed")
	}
	if len(h.idToKey) == 0 || limit <= 0 {
		return []*VectorResult{}, nil
	}

	query := make([]float32, len(vector))
	copy(query, vector)
	normalizeVectorInPlace(query)

	neighbors := h.graph.Search(query, limit)

	results := make([]*VectorResult, 0, len(neighbors))
	for _, node := range neighbors {
		id, ok := h.keyToID[node.Key]
		if !ok {
			continue
		}
		results = append(results, &VectorResult{
			DocID: id,
			Score: float64(dotProduct(query, node.Value)),
		})
	}
	return results, nil
}

// Size returns the number of stored vectors.
func (h *HNSWStore) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.idToKey)
}

// Close releases the store.
func (h *HNSWStore) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func normalizeVectorInPlace(v []float32) {
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

func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

var _ VectorStore = (*HNSWStore)(nil)
