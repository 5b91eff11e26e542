package fallback

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	s := NewEmbeddingService()
	ctx := context.Background()

	a, err := s.Embed(ctx, "white Nike sneakers")
	require.NoError(t, err)
	b, err := s.Embed(ctx, "white Nike sneakers")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbed_Dimensions(t *testing.T) {
	s := NewEmbeddingService()

	vec, err := s.Embed(context.Background(), "leather boots")
	require.NoError(t, err)
	assert.Len(t, vec, Dimensions)
	assert.Equal(t, Dimensions, s.Dimensions())
}

func TestEmbed_UnitNorm(t *testing.T) {
	s := NewEmbeddingService()

	vec, err := s.Embed(context.Background(), "black leather jacket for women")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	s := NewEmbeddingService()

	vec, err := s.Embed(context.Background(), "   ")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbed_CaseInsensitive(t *testing.T) {
	s := NewEmbeddingService()
	ctx := context.Background()

	a, _ := s.Embed(ctx, "WHITE SNEAKERS")
	b, _ := s.Embed(ctx, "white sneakers")
	assert.Equal(t, a, b)
}

func TestEmbed_CategorySignalDistinguishes(t *testing.T) {
	s := NewEmbeddingService()
	ctx := context.Background()

	sneakers, _ := s.Embed(ctx, "white sneakers")
	similar, _ := s.Embed(ctx, "white sneaker shoes")
	unrelated, _ := s.Embed(ctx, "stainless steel water bottle")

	simClose := dot(sneakers, similar)
	simFar := dot(sneakers, unrelated)
	assert.Greater(t, simClose, simFar)
}

func TestEmbedBatch(t *testing.T) {
	s := NewEmbeddingService()

	vectors, err := s.EmbedBatch(context.Background(), []string{"red dress", "blue jeans"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	single, _ := s.Embed(context.Background(), "red dress")
	assert.Equal(t, single, vectors[0])
}

func TestServiceMetadata(t *testing.T) {
	s := NewEmbeddingService()

	assert.Equal(t, "lexical-fallback", s.ModelName())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

// dot computes the raw dot product; inputs are unit vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
