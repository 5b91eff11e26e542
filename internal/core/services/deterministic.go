package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// Ensure DeterministicMatcher implements the interface.
var _ driving.MatchService = (*DeterministicMatcher)(nil)

// DeterministicMatcher is the offline matching path: every indexed
// product is scored by the rule-based scorer, no embeddings or LLM
// involved. Results are reproducible across runs.
type DeterministicMatcher struct {
	store  driven.ProductStore
	scorer *ScorerService
}

// NewDeterministicMatcher creates the rule-based match service.
func NewDeterministicMatcher(store driven.ProductStore, scorer *ScorerService) *DeterministicMatcher {
	return &DeterministicMatcher{
		store:  store,
		scorer: scorer,
	}
}

// Match scores all indexed products against the query and returns those
// with a non-zero score, best first.
func (m *DeterministicMatcher) Match(ctx context.Context, query string) (domain.MatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.MatchResult{Reasoning: "empty query"}, nil
	}

	if err := m.store.RecordQuery(ctx, query, time.Now()); err != nil {
		logger.Debug("Recording query failed: %v", err)
	}

	records, err := m.store.AllMetadata(ctx)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("loading products: %w", err)
	}
	if len(records) == 0 {
		return domain.MatchResult{Reasoning: "no products indexed"}, nil
	}

	logger.Section("Deterministic matching")
	logger.Debug("Scoring %d products against %q", len(records), query)

	var matches []domain.Match
	for i := range records {
		rec := &records[i]
		text := productText(rec)
		score := m.scorer.Score(text, query)
		if score <= 0 {
			continue
		}
		matches = append(matches, domain.Match{
			ProductID:  rec.ProductID,
			Title:      rec.Title,
			Brand:      rec.Brand,
			Price:      rec.Price,
			LinkURL:    rec.LinkURL,
			ImageURL:   rec.ImageURL,
			Element:    rec.Element,
			Confidence: score,
			Reason:     "rule-based score",
		})
	}

	matches = DedupeMatches(matches)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	reasoning := fmt.Sprintf("scored %d products, %d matched", len(records), len(matches))
	return domain.MatchResult{
		Matches:   matches,
		Reasoning: reasoning,
	}, nil
}

// productText assembles the text the scorer sees for one product.
func productText(rec *domain.ProductMetadata) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{rec.Brand, rec.Title, rec.Price, rec.RawText} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
