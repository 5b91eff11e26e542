package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

func TestStore_ChunkRoundtrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "c1", ProductID: "p1", Type: domain.ChunkTypeTitleBrand, Content: "Nike Air Max", Embedding: []float32{0.1, 0.2}},
		{ID: "c2", ProductID: "p1", Type: domain.ChunkTypeDescription, Content: "white sneakers"},
	}
	require.NoError(t, store.AddChunks(ctx, chunks))

	got, err := store.AllChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, chunks, got)
}

func TestStore_MetadataNotFound(t *testing.T) {
	store := NewStore()

	_, err := store.MetadataByProductID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MetadataNewestWins(t *testing.T) {
	store := NewStore()
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
}

func TestStore_RecentQueriesNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, store.RecordQuery(ctx, q, time.Now()))
	}

	queries, err := store.RecentQueries(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, queries)

	all, err := store.RecentQueries(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.Chunk{{ID: "c1"}}))
	require.NoError(t, store.AddMetadata(ctx, []domain.ProductMetadata{{ProductID: "p1"}}))
	require.NoError(t, store.RecordQuery(ctx, "query", time.Now()))

	require.NoError(t, store.Clear(ctx))

	chunks, err := store.AllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	metadata, err := store.AllMetadata(ctx)
	require.NoError(t, err)
	assert.Empty(t, metadata)

	queries, err := store.RecentQueries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.Chunk{{ID: "c1", Content: "original"}}))

	snapshot, err := store.AllChunks(ctx)
	require.NoError(t, err)
	snapshot[0].Content = "mutated"

	fresh, err := store.AllChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Content)
}
