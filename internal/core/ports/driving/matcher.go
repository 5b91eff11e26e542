package driving

import (
	"context"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

// MatchService judges indexed products against a free-text query.
type MatchService interface {
	// Match retrieves candidate chunks for the query, aggregates them
	// per product and returns ranked matches. Never returns an error
	// for LLM or parsing failures; those degrade into the result's
	// Reasoning field.
	Match(ctx context.Context, query string) (domain.MatchResult, error)
}

// ScoreService is the deterministic, offline scoring path.
type ScoreService interface {
	// Analyze decomposes a query into typed constraints.
	Analyze(query string) domain.QueryAnalysis

	// Score rates a product text against a query in [0,1].
	// A failed hard requirement (missing colour, brand, or price bound)
	// forces 0 regardless of keyword overlap.
	Score(productText, query string) float64
}
