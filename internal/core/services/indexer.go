package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
	"github.com/shopmatch-labs/shopmatch-cli/internal/vocab"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexService = (*IndexerService)(nil)

// DefaultChunkSize is the description length above which the text is
// split into overlapping windows.
const DefaultChunkSize = 200

// DefaultChunkOverlapFraction is the fraction of each window shared with
// its successor.
const DefaultChunkOverlapFraction = 0.2

// IndexerService converts captured products into embedded chunks and
// persists them. One pass at a time: concurrent calls are rejected with
// domain.ErrCaptureInProgress, not queued.
type IndexerService struct {
	store     driven.ProductStore
	embedding driven.EmbeddingService

	chunkSize int
	overlap   int

	mu    sync.Mutex
	state domain.CaptureState
}

// IndexerOption configures the indexer.
type IndexerOption func(*IndexerService)

// WithChunkSize sets the description window size in characters.
func WithChunkSize(size int) IndexerOption {
	return func(s *IndexerService) {
		if size > 0 {
			s.chunkSize = size
			s.overlap = int(float64(size) * DefaultChunkOverlapFraction)
		}
	}
}

// NewIndexerService creates a new indexing service.
func NewIndexerService(store driven.ProductStore, embedding driven.EmbeddingService, opts ...IndexerOption) *IndexerService {
	s := &IndexerService{
		store:     store,
		embedding: embedding,
		chunkSize: DefaultChunkSize,
		overlap:   int(DefaultChunkSize * DefaultChunkOverlapFraction),
		state:     domain.CaptureIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current capture/index lifecycle state.
func (s *IndexerService) State() domain.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// transition moves the lifecycle state under the lock.
func (s *IndexerService) transition(to domain.CaptureState) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
}

// IndexProducts chunks, embeds and persists a batch of captured products.
//
// Per product the pipeline resolves the content-hash id, extracts lexical
// attributes, emits up to three chunk types, embeds each chunk and writes
// chunks before metadata. Products with no usable text yield zero chunks
// and are skipped. Re-indexing identical products creates duplicate
// chunks; dedup happens at match time on the normalised title.
func (s *IndexerService) IndexProducts(ctx context.Context, products []domain.RawProduct) (domain.IndexStats, error) {
	s.mu.Lock()
	if !s.state.CanStart() {
		state := s.state
		s.mu.Unlock()
		return domain.IndexStats{}, fmt.Errorf("%w (state: %s)", domain.ErrCaptureInProgress, state)
	}
	s.state = domain.CaptureIndexing
	s.mu.Unlock()
	defer s.transition(domain.CaptureDone)

	logger.Section("Indexing")
	logger.Debug("Indexing %d captured products", len(products))

	var stats domain.IndexStats
	now := time.Now()

	for i := range products {
		p := &products[i]
		chunks := s.buildChunks(p, now)
		if len(chunks) == 0 {
			logger.Debug("Product %q has no indexable text, skipping", p.Title)
			continue
		}

		if err := s.embedChunks(ctx, chunks); err != nil {
			return stats, fmt.Errorf("embed chunks for %s: %w", p.ID, err)
		}

		// Chunks land before metadata so a retrieval that races this
		// pass sees at worst a hydration miss, never orphan metadata.
		if err := s.store.AddChunks(ctx, chunks); err != nil {
			return stats, fmt.Errorf("store chunks for %s: %w", p.ID, err)
		}
		meta := metadataFor(p, now)
		if err := s.store.AddMetadata(ctx, []domain.ProductMetadata{meta}); err != nil {
			return stats, fmt.Errorf("store metadata for %s: %w", p.ID, err)
		}

		stats.ProductCount++
		stats.ChunkCount += len(chunks)
	}

	logger.Info("Indexed %d products into %d chunks", stats.ProductCount, stats.ChunkCount)
	return stats, nil
}

// Clear removes all indexed data.
func (s *IndexerService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

// buildChunks emits the product's chunks, unembedded.
func (s *IndexerService) buildChunks(p *domain.RawProduct, now time.Time) []domain.Chunk {
	productID := p.ResolveID()
	pctx := ExtractProductContext(p.Text + " " + p.Title + " " + p.Description)

	newChunk := func(t domain.ChunkType, content string, position int) domain.Chunk {
		return domain.Chunk{
			ID:        uuid.New().String(),
			ProductID: productID,
			Type:      t,
			Content:   content,
			Position:  position,
			Domain:    p.Domain,
			IndexedAt: now,
		}
	}

	var chunks []domain.Chunk

	if title := strings.TrimSpace(strings.TrimSpace(p.Brand) + " " + strings.TrimSpace(p.Title)); title != "" {
		chunks = append(chunks, newChunk(domain.ChunkTypeTitleBrand, title, 0))
	}

	if attrs := attributeSummary(pctx, p.Price); attrs != "" {
		chunks = append(chunks, newChunk(domain.ChunkTypeAttributes, attrs, 0))
	}

	description := strings.TrimSpace(p.Description)
	if description == "" {
		description = strings.TrimSpace(p.Text)
	}
	if description != "" {
		if utf8.RuneCountInString(description) <= s.chunkSize {
			chunks = append(chunks, newChunk(domain.ChunkTypeDescription, description, 0))
		} else {
			for i, window := range splitWindows(description, s.chunkSize, s.overlap) {
				chunks = append(chunks, newChunk(domain.ChunkTypeDescription, window, i))
			}
		}
	}

	return chunks
}

// embedChunks fills in every chunk's embedding via one batch call.
func (s *IndexerService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// ExtractProductContext runs the lexical attribute extraction over a
// product's combined text.
func ExtractProductContext(text string) domain.ProductContext {
	lower := strings.ToLower(text)

	productType := vocab.MatchFirst(lower, vocab.ProductTypes)
	if productType == "" {
		productType = "unknown"
	}

	return domain.ProductContext{
		ProductType: productType,
		Colors:      vocab.MatchAll(lower, vocab.Colors),
		Materials:   vocab.MatchAll(lower, vocab.Materials),
		Styles:      vocab.MatchAll(lower, vocab.Styles),
		Gender:      vocab.Gender(lower),
	}
}

// attributeSummary renders the extracted attributes as a short
// human-readable sentence, or "" when nothing was extracted.
func attributeSummary(pctx domain.ProductContext, price string) string {
	var parts []string

	if len(pctx.Colors) > 0 {
		parts = append(parts, "colors: "+strings.Join(pctx.Colors, ", "))
	}
	if len(pctx.Materials) > 0 {
		parts = append(parts, "materials: "+strings.Join(pctx.Materials, ", "))
	}
	if len(pctx.Styles) > 0 {
		parts = append(parts, "style: "+strings.Join(pctx.Styles, ", "))
	}
	if pctx.ProductType != "unknown" {
		parts = append(parts, "type: "+pctx.ProductType)
	}
	if pctx.Gender != "unisex" {
		parts = append(parts, "for "+pctx.Gender)
	}
	if price != "" {
		parts = append(parts, "price: "+price)
	}

	return strings.Join(parts, "; ")
}

// splitWindows splits text into windows of at most size characters,
// consecutive windows sharing overlap characters. Offsets are in runes,
// not bytes, so a window never splits a multibyte character.
func splitWindows(text string, size, overlap int) []string {
	if overlap >= size {
		overlap = size / 4
	}
	step := size - overlap

	runes := []rune(text)
	var windows []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return windows
}

// metadataFor builds the persisted summary for one product.
func metadataFor(p *domain.RawProduct, now time.Time) domain.ProductMetadata {
	return domain.ProductMetadata{
		ProductID: p.ID,
		Title:     p.Title,
		Brand:     p.Brand,
		Price:     p.Price,
		LinkURL:   p.LinkURL,
		ImageURL:  p.ImageURL,
		Element:   p.Element,
		Domain:    p.Domain,
		RawText:   p.Text,
		IndexedAt: now,
	}
}
