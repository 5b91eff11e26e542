package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ChunkRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	indexed := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	chunks := []domain.Chunk{
		{
			ID:        "c1",
			ProductID: "p1",
			Type:      domain.ChunkTypeTitleBrand,
			Content:   "Nike Air Max 90",
			Position:  0,
			Embedding: []float32{0.25, -1.5, 3.75},
			Domain:    "shop.example.com",
			IndexedAt: indexed,
		},
		{
			ID:        "c2",
			ProductID: "p1",
			Type:      domain.ChunkTypeDescription,
			Content:   "white sneakers",
			Position:  1,
			Embedding: []float32{0.1},
			IndexedAt: indexed,
		},
	}
	require.NoError(t, store.AddChunks(ctx, chunks))

	got, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := make(map[string]domain.Chunk)
	for _, c := range got {
		byID[c.ID] = c
	}
	c1 := byID["c1"]
	assert.Equal(t, domain.ChunkTypeTitleBrand, c1.Type)
	assert.Equal(t, []float32{0.25, -1.5, 3.75}, c1.Embedding)
	assert.Equal(t, "shop.example.com", c1.Domain)
	assert.True(t, indexed.Equal(c1.IndexedAt))
}

func TestStore_AddChunksUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.Chunk{
		{ID: "c1", ProductID: "p1", Type: domain.ChunkTypeTitleBrand, Content: "before"},
	}))
	require.NoError(t, store.AddChunks(ctx, []domain.Chunk{
		{ID: "c1", ProductID: "p1", Type: domain.ChunkTypeTitleBrand, Content: "after"},
	}))

	chunks, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "after", chunks[0].Content)
}

func TestStore_AddChunksSkipsBadRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// One unsaveable chunk in the middle must not abort the batch.
	err := store.AddChunks(ctx, []domain.Chunk{
		{ID: "c1", ProductID: "p1", Type: domain.ChunkTypeTitleBrand, Content: "Nike Air Max 90"},
		{ID: "", ProductID: "p1", Type: domain.ChunkTypeDescription, Content: "broken"},
		{ID: "c3", ProductID: "p1", Type: domain.ChunkTypeDescription, Content: "white sneakers"},
	})
	require.NoError(t, err)

	chunks, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.NotEmpty(t, c.ID)
	}
}

func TestStore_AddMetadataSkipsBadRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.AddMetadata(ctx, []domain.ProductMetadata{
		{ProductID: "", Title: "Orphan"},
		{ProductID: "p1", Title: "Air Max 90"},
	})
	require.NoError(t, err)

	all, err := store.AllMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Air Max 90", all[0].Title)
}

func TestStore_MetadataRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := domain.ProductMetadata{
		ProductID: "p1",
		Title:     "Air Max 90",
		Brand:     "Nike",
		Price:     "€129,99",
		LinkURL:   "https://shop.example.com/air-max-90",
		ImageURL:  "https://shop.example.com/air-max-90.jpg",
		Element: domain.ElementInfo{
			TagName:      "article",
			ClassList:    []string{"card", "product"},
			SiblingIndex: 2,
		},
		Domain:    "shop.example.com",
		RawText:   "Nike Air Max 90 white sneakers €129,99",
		IndexedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.AddMetadata(ctx, []domain.ProductMetadata{rec}))

	got, err := store.MetadataByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Element, got.Element)
	assert.Equal(t, rec.RawText, got.RawText)
}

func TestStore_MetadataNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.MetadataByProductID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MetadataNewestWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddMetadata(ctx, []domain.ProductMetadata{
		{ProductID: "p1", Title: "Old Title"},
	}))
	require.NoError(t, store.AddMetadata(ctx, []domain.ProductMetadata{
		{ProductID: "p1", Title: "New Title"},
	}))

	meta, err := store.MetadataByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New Title", meta.Title)

	all, err := store.AllMetadata(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_QueryHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, store.RecordQuery(ctx, q, time.Now()))
	}

	queries, err := store.RecentQueries(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, queries)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.Chunk{{ID: "c1", ProductID: "p1"}}))
	require.NoError(t, store.AddMetadata(ctx, []domain.ProductMetadata{{ProductID: "p1"}}))
	require.NoError(t, store.RecordQuery(ctx, "query", time.Now()))

	require.NoError(t, store.Clear(ctx))

	chunks, err := store.AllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	metadata, err := store.AllMetadata(ctx)
	require.NoError(t, err)
	assert.Empty(t, metadata)
}

func TestStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.AddChunks(ctx, []domain.Chunk{{ID: "c1", ProductID: "p1", Content: "kept"}}))
	require.NoError(t, first.Close())

	// Reopening must not re-run applied migrations or lose data.
	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	chunks, err := second.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "kept", chunks[0].Content)
}

func TestFloat32BytesRoundtrip(t *testing.T) {
	original := []float32{0, 1, -1, 0.5, 3.1415927, -2.5e-7}

	bytes := float32SliceToBytes(original)
	assert.Len(t, bytes, len(original)*4)
	assert.Equal(t, original, bytesToFloat32Slice(bytes))

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
