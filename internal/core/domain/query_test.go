package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceConstraint_Satisfies(t *testing.T) {
	max := PriceConstraint{Type: PriceMax, Value: 100}
	assert.True(t, max.Satisfies(99.99))
	assert.True(t, max.Satisfies(100))
	assert.False(t, max.Satisfies(100.01))

	min := PriceConstraint{Type: PriceMin, Value: 50}
	assert.True(t, min.Satisfies(50))
	assert.True(t, min.Satisfies(51))
	assert.False(t, min.Satisfies(49.99))
}

func TestQueryAnalysis_HasConstraints(t *testing.T) {
	assert.False(t, QueryAnalysis{}.HasConstraints())
	assert.True(t, QueryAnalysis{Keywords: []string{"sneakers"}}.HasConstraints())
	assert.True(t, QueryAnalysis{Colors: []string{"white"}}.HasConstraints())
	assert.True(t, QueryAnalysis{Prices: []PriceConstraint{{Type: PriceMax, Value: 100}}}.HasConstraints())
}
