package services

import (
	"math"
	"strings"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
	"github.com/shopmatch-labs/shopmatch-cli/internal/vocab"
)

// Ensure ScorerService implements the interface.
var _ driving.ScoreService = (*ScorerService)(nil)

// boostPerKeyword is the additive bonus for each residual keyword on the
// historically-well-performing allowlist.
const boostPerKeyword = 0.05

// naiveOverlapFloor is the minimum token-overlap fraction for the
// no-constraints fallback to report a match at all.
const naiveOverlapFloor = 0.5

// WeightTable holds the relative weight of each scoring component.
// Weights need not sum to 1 after adaptive adjustment; the final score
// is clamped, not renormalised.
type WeightTable struct {
	Keyword    float64
	Exact      float64
	Semantic   float64
	Price      float64
	Brand      float64
	Category   float64
	Color      float64
	Attributes float64
}

// baseWeights is the starting weight table before adaptation.
func baseWeights() WeightTable {
	return WeightTable{
		Keyword:    0.25,
		Exact:      0.15,
		Semantic:   0.10,
		Price:      0.10,
		Brand:      0.10,
		Category:   0.05,
		Color:      0.15,
		Attributes: 0.10,
	}
}

// weightsFor derives the weight table for a query. Specificity dominates:
// each constraint kind the query actually carries is weighted up at the
// expense of the generic keyword weight. Pure function of the analysis,
// so scoring stays deterministic and unit-testable.
func weightsFor(analysis domain.QueryAnalysis) WeightTable {
	w := baseWeights()

	shift := func(target *float64) {
		const step = 0.08
		*target += step
		w.Keyword -= step
	}

	if len(analysis.Prices) > 0 {
		shift(&w.Price)
	}
	if len(analysis.Brands) > 0 {
		shift(&w.Brand)
	}
	if len(analysis.Colors) > 0 {
		shift(&w.Color)
	}
	if len(analysis.Attributes) > 0 {
		shift(&w.Attributes)
	}
	if w.Keyword < 0.05 {
		w.Keyword = 0.05
	}

	return w
}

// ScorerService is the deterministic, rule-based relevance scorer.
// It needs no store, no embeddings and no network, which makes it the
// matching path of last resort.
type ScorerService struct {
	boostKeywords map[string]bool
}

// ScorerOption configures the scorer.
type ScorerOption func(*ScorerService)

// WithBoostKeywords supplies keywords known to perform well historically.
// Each one present in a query adds a small bonus to matching products.
func WithBoostKeywords(keywords []string) ScorerOption {
	return func(s *ScorerService) {
		for _, k := range keywords {
			s.boostKeywords[strings.ToLower(k)] = true
		}
	}
}

// NewScorerService creates a new deterministic scorer.
func NewScorerService(opts ...ScorerOption) *ScorerService {
	s := &ScorerService{
		boostKeywords: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze decomposes a query into typed constraints.
func (s *ScorerService) Analyze(query string) domain.QueryAnalysis {
	return AnalyzeQuery(query)
}

// Score rates a product text against a query in [0,1].
func (s *ScorerService) Score(productText, query string) float64 {
	text := strings.ToLower(productText)
	if strings.TrimSpace(text) == "" || strings.TrimSpace(query) == "" {
		return 0
	}

	analysis := AnalyzeQuery(query)

	if !analysis.HasConstraints() {
		return naiveOverlap(text, query)
	}

	if !s.checkCoreRequirements(text, analysis) {
		logger.Debug("Hard requirements failed for query %q", query)
		return 0
	}

	w := weightsFor(analysis)
	score := w.Keyword*keywordCoverage(text, analysis.Keywords, strings.Contains) +
		w.Exact*keywordCoverage(text, analysis.Keywords, vocab.ContainsWord) +
		w.Semantic*semanticOverlap(text, analysis.CoreQuery) +
		w.Price*priceScore(text, analysis.Prices) +
		w.Brand*coverage(text, analysis.Brands) +
		w.Category*1.0 + // Placeholder: category matching is not refined yet.
		w.Color*coverage(text, analysis.Colors) +
		w.Attributes*attributeCoverage(text, analysis.Attributes)

	for _, k := range analysis.Keywords {
		if s.boostKeywords[k] && containsKeyword(text, k) {
			score += boostPerKeyword
		}
	}

	return math.Min(score, 1.0)
}

// checkCoreRequirements enforces hard constraints before any weighted
// scoring: minimum keyword coverage, colour, brand, and price bounds.
// Any failure forces a zero score.
func (s *ScorerService) checkCoreRequirements(text string, analysis domain.QueryAnalysis) bool {
	if n := len(analysis.Keywords); n > 0 {
		required := (n + 1) / 2
		if required < 1 {
			required = 1
		}
		found := 0
		for _, k := range analysis.Keywords {
			if containsKeyword(text, k) {
				found++
			}
		}
		if found < required {
			return false
		}
	}

	if len(analysis.Colors) > 0 && !anyWord(text, analysis.Colors) {
		return false
	}

	if len(analysis.Brands) > 0 && !anyWord(text, analysis.Brands) {
		return false
	}

	// Price is only blocking when the text carries an extractable price.
	// A product without a visible price is given the benefit of the doubt.
	if len(analysis.Prices) > 0 {
		if price, ok := extractTextPrice(text); ok {
			for _, c := range analysis.Prices {
				if !c.Satisfies(price) {
					return false
				}
			}
		}
	}

	return true
}

// naiveOverlap is the no-constraints fallback: the fraction of query
// words (length > 2) present in the text, reported only above the floor.
func naiveOverlap(text, query string) float64 {
	words := strings.Fields(strings.ToLower(query))
	var considered, found int
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		considered++
		if strings.Contains(text, w) {
			found++
		}
	}
	if considered == 0 {
		return 0
	}
	fraction := float64(found) / float64(considered)
	if fraction > naiveOverlapFloor {
		return fraction
	}
	return 0
}

// containsKeyword matches a keyword as a whole word, tolerating naive
// plural/singular variants.
func containsKeyword(text, keyword string) bool {
	if vocab.ContainsWord(text, keyword) {
		return true
	}
	if strings.HasSuffix(keyword, "s") {
		if vocab.ContainsWord(text, strings.TrimSuffix(keyword, "s")) {
			return true
		}
	} else if vocab.ContainsWord(text, keyword+"s") {
		return true
	}
	return false
}

// keywordCoverage is the fraction of keywords found by the given matcher.
func keywordCoverage(text string, keywords []string, match func(string, string) bool) float64 {
	if len(keywords) == 0 {
		return 1
	}
	found := 0
	for _, k := range keywords {
		if match(text, k) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

// coverage is the fraction of vocabulary terms found as whole words.
func coverage(text string, terms []string) float64 {
	if len(terms) == 0 {
		return 1
	}
	found := 0
	for _, t := range terms {
		if vocab.ContainsWord(text, t) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

// anyWord reports whether any term appears as a whole word.
func anyWord(text string, terms []string) bool {
	for _, t := range terms {
		if vocab.ContainsWord(text, t) {
			return true
		}
	}
	return false
}

// semanticOverlap is a Jaccard-style ratio of shared words (length >= 3)
// between the product text and the core query.
func semanticOverlap(text, coreQuery string) float64 {
	textWords := wordSet(text)
	queryWords := wordSet(coreQuery)
	if len(queryWords) == 0 || len(textWords) == 0 {
		return 0
	}
	shared := 0
	for w := range queryWords {
		if textWords[w] {
			shared++
		}
	}
	union := len(queryWords) + len(textWords) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range nonWordSplitRe.Split(strings.ToLower(text), -1) {
		if len(w) >= 3 {
			set[w] = true
		}
	}
	return set
}

// priceScore rates price satisfaction: 1 if unconstrained or satisfied,
// 0 if violated, 0.5 when constrained but the text has no price.
func priceScore(text string, constraints []domain.PriceConstraint) float64 {
	if len(constraints) == 0 {
		return 1
	}
	price, ok := extractTextPrice(text)
	if !ok {
		return 0.5
	}
	for _, c := range constraints {
		if !c.Satisfies(price) {
			return 0
		}
	}
	return 1
}

// attributeCoverage is the fraction of typed attributes whose value
// appears in the text.
func attributeCoverage(text string, attrs []domain.QueryAttribute) float64 {
	if len(attrs) == 0 {
		return 1
	}
	found := 0
	for _, a := range attrs {
		if vocab.ContainsWord(text, a.Value) {
			found++
		}
	}
	return float64(found) / float64(len(attrs))
}
