package db

import (
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorOfSize(n int) pgvector.Vector {
	return pgvector.NewVector(make([]float32, n))
}

func TestMetricOperator(t *testing.T) {
	tests := []struct {
		metric  Metric
		want    string
		wantErr bool
	}{
		{Euclidean, "<->", false},
		{Cosine, "<=>", false},
		{InnerProduct, "<#>", false},
		{Metric("manhattan"), "", true},
		{Metric(""), "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			op, err := tt.metric.operator()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	t.Run("all correct", func(t *testing.T) {
		docs := []Document{
			{Content: "a", Embedding: vectorOfSize(VectorSize)},
			{Content: "b", Embedding: vectorOfSize(VectorSize)},
		}
		assert.NoError(t, ValidateDimensions(docs))
	})

	t.Run("one wrong rejects the batch", func(t *testing.T) {
		docs := []Document{
			{Content: "a", Embedding: vectorOfSize(VectorSize)},
			{Content: "b", Embedding: vectorOfSize(VectorSize - 1)},
			{Content: "c", Embedding: vectorOfSize(VectorSize)},
		}
		err := ValidateDimensions(docs)
		require.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Contains(t, err.Error(), "document 1")
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, ValidateDimensions(nil))
	})
}
