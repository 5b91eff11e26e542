package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// RetrievalService scores stored chunks against a query embedding and
// returns the best ones. Retrieval is an exhaustive scan: the per-page
// index is small enough that approximate-nearest-neighbour machinery
// would cost more than it saves.
type RetrievalService struct {
	store     driven.ProductStore
	embedding driven.EmbeddingService
	threshold float64
	maxChunks int
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	store driven.ProductStore,
	embedding driven.EmbeddingService,
	settings domain.MatchSettings,
) *RetrievalService {
	threshold := settings.SimilarityThreshold
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}
	maxChunks := settings.MaxChunks
	if maxChunks <= 0 {
		maxChunks = domain.DefaultMaxChunks
	}
	return &RetrievalService{
		store:     store,
		embedding: embedding,
		threshold: threshold,
		maxChunks: maxChunks,
	}
}

// Retrieve embeds the query, scans every stored chunk and returns those
// above the similarity threshold, best first, capped at maxResults
// (or the configured maximum when maxResults <= 0).
//
// Ties keep their scan order; the store snapshot makes that stable
// within one call.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, maxResults int) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if maxResults <= 0 || maxResults > s.maxChunks {
		maxResults = s.maxChunks
	}

	queryVec, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	logger.Debug("Retrieval: scanning %d chunks (threshold %.2f)", len(chunks), s.threshold)

	retrieved := make([]domain.RetrievedChunk, 0, len(chunks))
	for i := range chunks {
		sim := CosineSimilarity(queryVec, chunks[i].Embedding)
		if sim < s.threshold {
			continue
		}
		retrieved = append(retrieved, domain.RetrievedChunk{
			Chunk:      chunks[i],
			Similarity: sim,
		})
	}

	sort.SliceStable(retrieved, func(i, j int) bool {
		return retrieved[i].Similarity > retrieved[j].Similarity
	})

	if len(retrieved) > maxResults {
		retrieved = retrieved[:maxResults]
	}

	logger.Debug("Retrieval: %d chunks above threshold", len(retrieved))
	return retrieved, nil
}

// CosineSimilarity computes the normalised dot product of two vectors.
// Extra dimensions in the longer vector are ignored; a zero-norm vector
// yields 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
