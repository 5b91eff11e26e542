package driving

import (
	"context"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

// IndexService turns captured products into retrievable chunks.
type IndexService interface {
	// IndexProducts chunks, embeds and persists a batch of captured
	// products. Products with no usable text are skipped silently.
	// Returns domain.ErrCaptureInProgress if a pass is already running.
	IndexProducts(ctx context.Context, products []domain.RawProduct) (domain.IndexStats, error)

	// State reports the current capture/index lifecycle state.
	State() domain.CaptureState

	// Clear removes all indexed data.
	Clear(ctx context.Context) error
}
