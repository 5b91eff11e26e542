// Package resilient wraps a primary embedding service with the
// deterministic fallback so embedding never fails outward. When the
// primary errors, the failure is logged and the fallback vector is
// returned instead.
package resilient

import (
	"context"

	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/embedding/fallback"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService delegates to primary and degrades to the fallback.
// A nil primary means the fallback is used directly.
type EmbeddingService struct {
	primary  driven.EmbeddingService
	fallback *fallback.EmbeddingService
}

// NewEmbeddingService wraps primary (which may be nil) with the fallback.
func NewEmbeddingService(primary driven.EmbeddingService) *EmbeddingService {
	return &EmbeddingService{
		primary:  primary,
		fallback: fallback.NewEmbeddingService(),
	}
}

// Embed returns the primary's embedding, or the fallback's on any error.
// Never returns a non-nil error.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.primary != nil {
		vec, err := s.primary.Embed(ctx, text)
		if err == nil && len(vec) > 0 {
			return vec, nil
		}
		if err != nil {
			logger.Warn("Primary embedding failed, using fallback: %v", err)
		}
	}
	return s.fallback.Embed(ctx, text)
}

// EmbedBatch embeds all texts, degrading the whole batch to the fallback
// if the primary fails. Mixed-provider batches would break similarity
// comparisons, so degradation is all-or-nothing per batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.primary != nil {
		vectors, err := s.primary.EmbedBatch(ctx, texts)
		if err == nil && len(vectors) == len(texts) {
			return vectors, nil
		}
		if err != nil {
			logger.Warn("Primary batch embedding failed, using fallback: %v", err)
		}
	}
	return s.fallback.EmbedBatch(ctx, texts)
}

// Dimensions reports the primary's dimensions when available.
func (s *EmbeddingService) Dimensions() int {
	if s.primary != nil {
		return s.primary.Dimensions()
	}
	return s.fallback.Dimensions()
}

// ModelName reports the active model chain.
func (s *EmbeddingService) ModelName() string {
	if s.primary != nil {
		return s.primary.ModelName() + "+fallback"
	}
	return s.fallback.ModelName()
}

// Ping checks the primary when present; the fallback needs no check.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if s.primary != nil {
		return s.primary.Ping(ctx)
	}
	return nil
}

// Close releases the primary's resources.
func (s *EmbeddingService) Close() error {
	if s.primary != nil {
		return s.primary.Close()
	}
	return nil
}
