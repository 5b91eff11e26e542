package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/embedding/fallback"
	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/storage/memory"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 2}, 0.0},
		{"both empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	// Extra dimensions contribute to the norm, not the dot product.
	sim := CosineSimilarity([]float32{1}, []float32{1, 1})
	assert.InDelta(t, 0.70710678, sim, 1e-6)
}

// testCatalogue returns captured products for retrieval scenarios.
func testCatalogue() []domain.RawProduct {
	return []domain.RawProduct{
		{
			Title:       "WH-1000XM4",
			Brand:       "Sony",
			Price:       "€349",
			Description: "Industry leading noise cancelling wireless headphones",
			Domain:      "shop.example.com",
		},
		{
			Title:       "Ultraboost",
			Brand:       "Adidas",
			Price:       "€180",
			Description: "Responsive running shoes with knit upper",
			Domain:      "shop.example.com",
		},
		{
			Title:       "Garden Hose Reel",
			Price:       "€35",
			Description: "Green garden hose reel for up to 30 metres",
			Domain:      "shop.example.com",
		},
	}
}

// setupRetrieval indexes the test catalogue with the fallback embedder.
func setupRetrieval(t *testing.T, settings domain.MatchSettings) (*RetrievalService, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	embedder := fallback.NewEmbeddingService()
	indexer := NewIndexerService(store, embedder)

	_, err := indexer.IndexProducts(context.Background(), testCatalogue())
	require.NoError(t, err)

	return NewRetrievalService(store, embedder, settings), store
}

func TestRetrieve_RanksMatchingProductFirst(t *testing.T) {
	retrieval, _ := setupRetrieval(t, domain.MatchSettings{
		SimilarityThreshold: 0.1,
		MaxChunks:           100,
	})

	retrieved, err := retrieval.Retrieve(context.Background(), "sony wireless headphones", 0)
	require.NoError(t, err)
	require.NotEmpty(t, retrieved)

	sonyID := domain.ProductID("WH-1000XM4", "Sony", "€349", "")
	assert.Equal(t, sonyID, retrieved[0].Chunk.ProductID)

	// Best first.
	for i := 1; i < len(retrieved); i++ {
		assert.GreaterOrEqual(t, retrieved[i-1].Similarity, retrieved[i].Similarity)
	}
}

func TestRetrieve_ThresholdFiltersUnrelated(t *testing.T) {
	retrieval, _ := setupRetrieval(t, domain.MatchSettings{
		SimilarityThreshold: 0.9,
		MaxChunks:           100,
	})

	retrieved, err := retrieval.Retrieve(context.Background(), "sony wireless headphones", 0)
	require.NoError(t, err)
	require.NotEmpty(t, retrieved)

	hoseID := domain.ProductID("Garden Hose Reel", "", "€35", "")
	for _, rc := range retrieved {
		assert.NotEqual(t, hoseID, rc.Chunk.ProductID)
		assert.GreaterOrEqual(t, rc.Similarity, 0.9)
	}
}

func TestRetrieve_MaxResultsCap(t *testing.T) {
	retrieval, _ := setupRetrieval(t, domain.MatchSettings{
		SimilarityThreshold: 0.1,
		MaxChunks:           100,
	})

	retrieved, err := retrieval.Retrieve(context.Background(), "sony wireless headphones", 1)
	require.NoError(t, err)
	assert.Len(t, retrieved, 1)
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	retrieval, _ := setupRetrieval(t, domain.MatchSettings{
		SimilarityThreshold: 0.1,
		MaxChunks:           100,
	})

	retrieved, err := retrieval.Retrieve(context.Background(), "   ", 0)
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	store := memory.NewStore()
	retrieval := NewRetrievalService(store, fallback.NewEmbeddingService(), domain.MatchSettings{})

	retrieved, err := retrieval.Retrieve(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, retrieved)
}

func TestNewRetrievalService_Defaults(t *testing.T) {
	s := NewRetrievalService(memory.NewStore(), fallback.NewEmbeddingService(), domain.MatchSettings{})
	assert.Equal(t, domain.DefaultSimilarityThreshold, s.threshold)
	assert.Equal(t, domain.DefaultMaxChunks, s.maxChunks)
}
