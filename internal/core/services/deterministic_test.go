package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/storage/memory"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

func setupDeterministic(t *testing.T, records []domain.ProductMetadata) *DeterministicMatcher {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.AddMetadata(context.Background(), records))
	return NewDeterministicMatcher(store, NewScorerService())
}

func TestDeterministicMatch_EmptyQuery(t *testing.T) {
	m := setupDeterministic(t, nil)

	result, err := m.Match(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "empty query", result.Reasoning)
}

func TestDeterministicMatch_NoProducts(t *testing.T) {
	m := setupDeterministic(t, nil)

	result, err := m.Match(context.Background(), "white sneakers")
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Equal(t, "no products indexed", result.Reasoning)
}

func TestDeterministicMatch_FiltersAndRanks(t *testing.T) {
	m := setupDeterministic(t, []domain.ProductMetadata{
		{
			ProductID: "p1",
			Title:     "Air Force 1",
			Brand:     "Nike",
			Price:     "€99",
			RawText:   "white sneakers with low profile",
		},
		{
			ProductID: "p2",
			Title:     "Summer Dress",
			Brand:     "Zara",
			Price:     "€49",
			RawText:   "blue summer dress",
		},
	})

	result, err := m.Match(context.Background(), "white nike sneakers")
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	assert.Equal(t, "p1", result.Matches[0].ProductID)
	assert.Equal(t, "rule-based score", result.Matches[0].Reason)
	assert.Greater(t, result.Matches[0].Confidence, 0.0)
	assert.Equal(t, "scored 2 products, 1 matched", result.Reasoning)
}

func TestDeterministicMatch_SortedByConfidence(t *testing.T) {
	m := setupDeterministic(t, []domain.ProductMetadata{
		{ProductID: "p1", Title: "Basic Sneakers", RawText: "white sneakers"},
		{ProductID: "p2", Title: "Cotton Sneakers", RawText: "white sneakers cotton lining"},
	})

	result, err := m.Match(context.Background(), "white sneakers")
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.GreaterOrEqual(t, result.Matches[0].Confidence, result.Matches[1].Confidence)
}

func TestDeterministicMatch_RecordsQuery(t *testing.T) {
	store := memory.NewStore()
	m := NewDeterministicMatcher(store, NewScorerService())

	_, err := m.Match(context.Background(), "white sneakers")
	require.NoError(t, err)

	queries, err := store.RecentQueries(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"white sneakers"}, queries)
}

func TestProductText(t *testing.T) {
	rec := domain.ProductMetadata{
		Brand:   "Nike",
		Title:   "Air Force 1",
		Price:   "€99",
		RawText: "white sneakers",
	}
	assert.Equal(t, "Nike Air Force 1 €99 white sneakers", productText(&rec))

	sparse := domain.ProductMetadata{Title: "Air Force 1"}
	assert.Equal(t, "Air Force 1", productText(&sparse))
}
