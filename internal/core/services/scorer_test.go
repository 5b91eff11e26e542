package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

func TestScorer_MatchingProductScoresPositive(t *testing.T) {
	s := NewScorerService()

	// Singular/plural tolerance: "sneakers" matches "Sneaker".
	score := s.Score("Nike - Sneaker low - white, cotton upper", "white sneakers")
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestScorer_MissingColorForcesZero(t *testing.T) {
	s := NewScorerService()

	score := s.Score("Elegant blue dress with long sleeves", "red dress")
	assert.Equal(t, 0.0, score)
}

func TestScorer_MissingBrandForcesZero(t *testing.T) {
	s := NewScorerService()

	score := s.Score("Adidas Runner sneakers", "nike sneakers")
	assert.Equal(t, 0.0, score)
}

func TestScorer_PriceViolationForcesZero(t *testing.T) {
	s := NewScorerService()

	score := s.Score("Nike Air sneakers €149,99", "nike sneakers under 100")
	assert.Equal(t, 0.0, score)
}

func TestScorer_PriceSatisfiedScoresPositive(t *testing.T) {
	s := NewScorerService()

	score := s.Score("Nike Air sneakers €89,99", "nike sneakers under 100")
	assert.Greater(t, score, 0.0)
}

func TestScorer_PricelessProductGetsBenefitOfDoubt(t *testing.T) {
	s := NewScorerService()

	// No extractable price in the text: the bound is not blocking.
	score := s.Score("Nike Air sneakers, classic fit", "nike sneakers under 100")
	assert.Greater(t, score, 0.0)
}

func TestScorer_KeywordMajorityRequired(t *testing.T) {
	s := NewScorerService()

	// Keywords: running, sneakers, summer -> at least 2 must appear.
	assert.Equal(t, 0.0, s.Score("leather wallet", "running sneakers summer"))
	assert.Greater(t, s.Score("running sneakers for any season", "running sneakers summer"), 0.0)
}

func TestScorer_EmptyInputs(t *testing.T) {
	s := NewScorerService()

	assert.Equal(t, 0.0, s.Score("", "white sneakers"))
	assert.Equal(t, 0.0, s.Score("some product", ""))
}

func TestScorer_ScoreClampedToOne(t *testing.T) {
	s := NewScorerService(WithBoostKeywords([]string{"sneakers", "running"}))

	score := s.Score(
		"nike running sneakers white cotton €50",
		"nike running sneakers white cotton under 100",
	)
	assert.LessOrEqual(t, score, 1.0)
	assert.Greater(t, score, 0.0)
}

func TestScorer_BoostKeywords(t *testing.T) {
	plain := NewScorerService()
	boosted := NewScorerService(WithBoostKeywords([]string{"sneakers"}))

	text := "white sneakers with cotton lining"
	query := "white sneakers"
	assert.Greater(t, boosted.Score(text, query), plain.Score(text, query))
}

func TestScorer_Deterministic(t *testing.T) {
	s := NewScorerService()

	text := "Nike Air sneakers €89,99 white"
	query := "white nike sneakers under 100"
	first := s.Score(text, query)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(text, query))
	}
}

func TestWeightsFor_BasePreserved(t *testing.T) {
	w := weightsFor(domain.QueryAnalysis{Keywords: []string{"sneakers"}})
	assert.Equal(t, baseWeights(), w)
}

func TestWeightsFor_ShiftsTowardConstraints(t *testing.T) {
	analysis := domain.QueryAnalysis{
		Keywords: []string{"sneakers"},
		Colors:   []string{"white"},
		Brands:   []string{"nike"},
	}
	w := weightsFor(analysis)

	base := baseWeights()
	assert.InDelta(t, base.Color+0.08, w.Color, 1e-9)
	assert.InDelta(t, base.Brand+0.08, w.Brand, 1e-9)
	assert.InDelta(t, base.Keyword-0.16, w.Keyword, 1e-9)
}

func TestWeightsFor_KeywordFloor(t *testing.T) {
	analysis := domain.QueryAnalysis{
		Prices:     []domain.PriceConstraint{{Type: domain.PriceMax, Value: 100}},
		Brands:     []string{"nike"},
		Colors:     []string{"white"},
		Attributes: []domain.QueryAttribute{{Key: "material", Value: "leather"}},
	}
	w := weightsFor(analysis)
	assert.GreaterOrEqual(t, w.Keyword, 0.05)
}

func TestWeightsFor_Pure(t *testing.T) {
	analysis := domain.QueryAnalysis{Colors: []string{"white"}}
	assert.Equal(t, weightsFor(analysis), weightsFor(analysis))
}

func TestContainsKeyword_PluralTolerance(t *testing.T) {
	assert.True(t, containsKeyword("one sneaker on display", "sneakers"))
	assert.True(t, containsKeyword("many sneakers on display", "sneaker"))
	assert.False(t, containsKeyword("a boot on display", "sneakers"))
}

func TestNaiveOverlap_Floor(t *testing.T) {
	// Below or at half overlap reports no match at all.
	assert.Equal(t, 0.0, naiveOverlap("alpha something", "alpha beta"))
	assert.InDelta(t, 1.0, naiveOverlap("alpha beta here", "alpha beta"), 1e-9)
}
