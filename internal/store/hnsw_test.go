package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Nearest-neighbor ordering by cosine similarity
func TestHNSWStore_Search(t *testing.T) {
	// Given: three vectors, two close together
	s, err := NewHNSWStore(3)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "a", []float32{1, 0, 0}))
	require.NoError(t, s.Add(ctx, "b", []float32{0.9, 0.1, 0}))
	require.NoError(t, s.Add(ctx, "c", []float32{0, 0, 1}))

	// When: querying near "a"
	results, err := s.Search(ctx, []float32{1, 0, 0}, 2)

	// Then: "a" ranks first, "b" second
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].DocID)
	assert.Equal(t, "b", results[1].DocID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.Greater(t, results[0].Score, results[1].Score)
}

// TS02: Dimension mismatches are rejected
func TestHNSWStore_DimensionMismatch(t *testing.T) {
	s, err := NewHNSWStore(4)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	err = s.Add(context.Background(), "a", []float32{1, 0})
	var dimErr *ErrDimensionMismatch
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

// TS03: Empty store answers with no results
func TestHNSWStore_Empty(t *testing.T) {
	s, err := NewHNSWStore(3)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	results, err := s.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, s.Size())
}

// TS04: Re-adding an id replaces its vector
func TestHNSWStore_Replace(t *testing.T) {
	s, err := NewHNSWStore(3)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "a", []float32{1, 0, 0}))
	require.NoError(t, s.Add(ctx, "a", []float32{0, 1, 0}))
	assert.Equal(t, 1, s.Size())

	results, err := s.Search(ctx, []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].DocID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
}
