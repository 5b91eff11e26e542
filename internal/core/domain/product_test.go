package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductID_Deterministic(t *testing.T) {
	a := ProductID("Air Max 90", "Nike", "€129,99", "https://example.com/p/1")
	b := ProductID("Air Max 90", "Nike", "€129,99", "https://example.com/p/1")
	assert.Equal(t, a, b)
}

func TestProductID_Format(t *testing.T) {
	id := ProductID("Air Max 90", "Nike", "€129,99", "https://example.com/p/1")
	assert.True(t, strings.HasPrefix(id, "p"))
	assert.Len(t, id, 17) // "p" + 16 hex digits
}

func TestProductID_DistinguishesContent(t *testing.T) {
	base := ProductID("Air Max 90", "Nike", "€129,99", "https://example.com/p/1")

	assert.NotEqual(t, base, ProductID("Air Max 95", "Nike", "€129,99", "https://example.com/p/1"))
	assert.NotEqual(t, base, ProductID("Air Max 90", "Adidas", "€129,99", "https://example.com/p/1"))
	assert.NotEqual(t, base, ProductID("Air Max 90", "Nike", "€99,99", "https://example.com/p/1"))
	assert.NotEqual(t, base, ProductID("Air Max 90", "Nike", "€129,99", "https://example.com/p/2"))
}

func TestProductID_FieldSeparation(t *testing.T) {
	// The separator prevents field-boundary collisions.
	a := ProductID("ab", "c", "", "")
	b := ProductID("a", "bc", "", "")
	assert.NotEqual(t, a, b)
}

func TestResolveID(t *testing.T) {
	p := RawProduct{Title: "Air Max 90", Brand: "Nike", Price: "€129,99", LinkURL: "https://example.com/p/1"}

	id := p.ResolveID()
	assert.Equal(t, ProductID("Air Max 90", "Nike", "€129,99", "https://example.com/p/1"), id)
	assert.Equal(t, id, p.ID)

	// A pre-set id is kept.
	p2 := RawProduct{ID: "custom", Title: "Other"}
	assert.Equal(t, "custom", p2.ResolveID())
}
