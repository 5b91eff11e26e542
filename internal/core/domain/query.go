package domain

// PriceConstraintType distinguishes upper and lower price bounds.
type PriceConstraintType string

// Available price constraint types.
const (
	// PriceMax is an upper bound ("under 50").
	PriceMax PriceConstraintType = "max"

	// PriceMin is a lower bound ("over 100").
	PriceMin PriceConstraintType = "min"
)

// PriceConstraint is a typed price bound extracted from a query.
type PriceConstraint struct {
	// Type is whether the bound is a maximum or a minimum.
	Type PriceConstraintType

	// Value is the numeric bound.
	Value float64

	// Currency is the currency symbol or code, if present.
	Currency string
}

// Satisfies reports whether the given price meets the constraint.
func (c PriceConstraint) Satisfies(price float64) bool {
	switch c.Type {
	case PriceMax:
		return price <= c.Value
	case PriceMin:
		return price >= c.Value
	default:
		return true
	}
}

// QueryAttribute is a typed key/value attribute extracted from a query,
// e.g. {Key: "material", Value: "leather"}.
type QueryAttribute struct {
	Key   string
	Value string
}

// QueryAnalysis is the typed decomposition of a free-text query.
// It is computed fresh per query and never persisted.
type QueryAnalysis struct {
	// CoreQuery is the query with matched constraint tokens and
	// stopwords stripped.
	CoreQuery string

	// Keywords are the residual core-query terms.
	Keywords []string

	// Colors are colour constraints (vocabulary matched).
	Colors []string

	// Brands are brand constraints (vocabulary matched).
	Brands []string

	// Prices are the extracted price constraints.
	Prices []PriceConstraint

	// Categories are category hints.
	Categories []string

	// Attributes are typed size/material/style/feature constraints.
	Attributes []QueryAttribute
}

// HasConstraints reports whether any typed constraint was extracted.
// When false, scoring falls back to naive token overlap.
func (a QueryAnalysis) HasConstraints() bool {
	return len(a.Keywords) > 0 ||
		len(a.Colors) > 0 ||
		len(a.Brands) > 0 ||
		len(a.Prices) > 0 ||
		len(a.Categories) > 0 ||
		len(a.Attributes) > 0
}
