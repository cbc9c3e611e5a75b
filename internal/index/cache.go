package index

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Cache stores serialized index blobs under content-derived keys. The
// build pipeline does not assume any particular backend.
type Cache interface {
	// Load returns the blob for key, with ok=false on a miss.
	Load(key string) ([]byte, bool, error)

	// Store writes the blob for key.
	Store(key string, data []byte) error
}

// FSCache is a filesystem blob cache. Writes go through a temp file and
// rename, guarded by a file lock, so concurrent processes never observe a
// half-written blob.
type FSCache struct {
	dir  string
	lock *flock.Flock
}

// NewFSCache creates the cache directory if needed.
func NewFSCache(dir string) (*FSCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FSCache{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Load reads the blob for key. A missing file is a miss, not an error.
func (c *FSCache) Load(key string) ([]byte, bool, error) {
	if err := c.lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	data, err := os.ReadFile(c.blobPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache blob: %w", err)
	}
	return data, true, nil
}

// Store writes the blob for key atomically.
func (c *FSCache) Store(key string, data []byte) error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	path := c.blobPath(key)
	tmp, err := os.CreateTemp(c.dir, "blob-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp blob: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish blob: %w", err)
	}
	return nil
}

func (c *FSCache) blobPath(key string) string {
	return filepath.Join(c.dir, key+".blob")
}

var _ Cache = (*FSCache)(nil)

// embeddingCacheKey derives a blob key from the embedding inputs and model
// name, so any corpus or model change misses cleanly.
func embeddingCacheKey(texts []string, model string) string {
	h := sha256.New()
	h.Write([]byte(model))
	for _, t := range texts {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Coordinator) loadCachedVectors(key string, want int) ([][]float32, bool) {
	data, ok, err := c.cache.Load(key)
	if err != nil || !ok {
		return nil, false
	}
	var vectors [][]float32
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&vectors); err != nil {
		return nil, false
	}
	if len(vectors) != want {
		return nil, false
	}
	return vectors, true
}

func (c *Coordinator) storeCachedVectors(key string, vectors [][]float32) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(vectors); err != nil {
		return fmt.Errorf("failed to encode vectors: %w", err)
	}
	return c.cache.Store(key, buf.Bytes())
}
