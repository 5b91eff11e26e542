// Package memory provides an in-memory product store for ephemeral runs
// and tests. Data does not survive the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ProductStore = (*Store)(nil)

// Store keeps chunks, metadata and query history in process memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	chunks   []domain.Chunk
	metadata []domain.ProductMetadata
	queries  []string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// AddChunks stores a batch of chunks.
func (s *Store) AddChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// AddMetadata stores a batch of product metadata records.
func (s *Store) AddMetadata(_ context.Context, records []domain.ProductMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = append(s.metadata, records...)
	return nil
}

// AllChunks returns a snapshot of every stored chunk.
func (s *Store) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// MetadataByProductID looks up metadata by product id; the newest record
// wins when a product was indexed more than once.
func (s *Store) MetadataByProductID(_ context.Context, productID string) (*domain.ProductMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.metadata) - 1; i >= 0; i-- {
		if s.metadata[i].ProductID == productID {
			rec := s.metadata[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

// AllMetadata returns a snapshot of every stored metadata record.
func (s *Store) AllMetadata(_ context.Context) ([]domain.ProductMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProductMetadata, len(s.metadata))
	copy(out, s.metadata)
	return out, nil
}

// RecordQuery appends a query to the history.
func (s *Store) RecordQuery(_ context.Context, query string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return nil
}

// RecentQueries returns up to limit history entries, newest first.
func (s *Store) RecentQueries(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.queries) {
		limit = len(s.queries)
	}
	out := make([]string, 0, limit)
	for i := len(s.queries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.queries[i])
	}
	return out, nil
}

// Clear removes everything.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.metadata = nil
	s.queries = nil
	return nil
}

// Close releases nothing.
func (s *Store) Close() error {
	return nil
}
