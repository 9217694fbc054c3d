package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("", "test", true)
	require.NoError(t, err)
	return m
}

// unitVector builds a 3-dimensional unit vector so cosine similarity is
// easy to reason about.
func unitVector(x, y, z float32) []float32 {
	return []float32{x, y, z}
}

func TestAddChunks_LengthMismatch(t *testing.T) {
	m := newTestStore(t)
	err := m.AddChunks(context.Background(), []string{"a", "b"}, [][]float32{unitVector(1, 0, 0)})
	assert.Error(t, err)
}

func TestSearch_OrderedByDistance(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	chunks := []string{"about x", "about y", "about z"}
	vectors := [][]float32{
		unitVector(1, 0, 0),
		unitVector(0, 1, 0),
		unitVector(0, 0, 1),
	}
	require.NoError(t, m.AddChunks(ctx, chunks, vectors))

	results, err := m.Search(ctx, unitVector(1, 0, 0), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "about x", results[0].Content)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance,
			"results must be in non-decreasing distance order")
	}
}

func TestSearch_ClampsKToStoredCount(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	require.NoError(t, m.AddChunks(ctx, []string{"only one"}, [][]float32{unitVector(1, 0, 0)}))

	results, err := m.Search(ctx, unitVector(1, 0, 0), 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_EmptyStore(t *testing.T) {
	m := newTestStore(t)
	results, err := m.Search(context.Background(), unitVector(1, 0, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReset_DropsStoredChunks(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	require.NoError(t, m.AddChunks(ctx, []string{"stale"}, [][]float32{unitVector(1, 0, 0)}))
	require.NoError(t, m.Reset("test"))

	results, err := m.Search(ctx, unitVector(1, 0, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
