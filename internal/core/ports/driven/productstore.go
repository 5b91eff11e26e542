package driven

import (
	"context"
	"time"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

// ProductStore persists product chunks and metadata.
// Backed by SQLite for durable storage, or memory for ephemeral runs.
//
// Writes within one indexing pass are append-only; there is no
// update-in-place. Failing to open the store is fatal for the calling
// operation, but implementations make bulk inserts best-effort: one bad
// record must not abort the batch.
type ProductStore interface {
	// AddChunks stores a batch of chunks.
	AddChunks(ctx context.Context, chunks []domain.Chunk) error

	// AddMetadata stores a batch of product metadata records.
	AddMetadata(ctx context.Context, records []domain.ProductMetadata) error

	// AllChunks returns every stored chunk. Retrieval does a full scan;
	// the result is a consistent snapshot per call.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// MetadataByProductID looks up metadata by the product id field.
	// This is a secondary-index lookup, not a primary-key lookup.
	// Returns domain.ErrNotFound if the product is unknown.
	MetadataByProductID(ctx context.Context, productID string) (*domain.ProductMetadata, error)

	// AllMetadata returns every stored metadata record.
	AllMetadata(ctx context.Context) ([]domain.ProductMetadata, error)

	// RecordQuery appends a query to the transient query history.
	// History is advisory; failures here never fail a match.
	RecordQuery(ctx context.Context, query string, at time.Time) error

	// RecentQueries returns up to limit history entries, newest first.
	RecentQueries(ctx context.Context, limit int) ([]string, error)

	// Clear removes all chunks, metadata and query history.
	// Atomic from the caller's point of view.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
