package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

func TestAnalyzeQuery_PriceMax(t *testing.T) {
	tests := []struct {
		query    string
		value    float64
		currency string
	}{
		{"sneakers under 100", 100, ""},
		{"sneakers under €100", 100, "EUR"},
		{"sneakers below 59.99", 59.99, ""},
		{"sneakers less than 80", 80, ""},
		{"sneakers max 50", 50, ""},
		{"sneakers maximum of 50", 50, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			analysis := AnalyzeQuery(tt.query)
			require.Len(t, analysis.Prices, 1)
			assert.Equal(t, domain.PriceMax, analysis.Prices[0].Type)
			assert.InDelta(t, tt.value, analysis.Prices[0].Value, 0.001)
			assert.Equal(t, tt.currency, analysis.Prices[0].Currency)
		})
	}
}

func TestAnalyzeQuery_PriceMin(t *testing.T) {
	analysis := AnalyzeQuery("headphones over 200")
	require.Len(t, analysis.Prices, 1)
	assert.Equal(t, domain.PriceMin, analysis.Prices[0].Type)
	assert.InDelta(t, 200.0, analysis.Prices[0].Value, 0.001)
}

func TestAnalyzeQuery_BareCurrencyAmountIsBudget(t *testing.T) {
	analysis := AnalyzeQuery("sneakers €80")
	require.Len(t, analysis.Prices, 1)
	assert.Equal(t, domain.PriceMax, analysis.Prices[0].Type)
	assert.InDelta(t, 80.0, analysis.Prices[0].Value, 0.001)
	assert.Equal(t, "EUR", analysis.Prices[0].Currency)
}

func TestAnalyzeQuery_CommaDecimal(t *testing.T) {
	analysis := AnalyzeQuery("boots under 79,99")
	require.Len(t, analysis.Prices, 1)
	assert.InDelta(t, 79.99, analysis.Prices[0].Value, 0.001)
}

func TestAnalyzeQuery_BrandAndColor(t *testing.T) {
	analysis := AnalyzeQuery("white nike sneakers")

	assert.Equal(t, []string{"nike"}, analysis.Brands)
	assert.Equal(t, []string{"white"}, analysis.Colors)
	// Brand and colour leave the residual; the product noun stays.
	assert.Equal(t, []string{"sneakers"}, analysis.Keywords)
}

func TestAnalyzeQuery_MultiWordBrand(t *testing.T) {
	analysis := AnalyzeQuery("new balance trainers")
	assert.Equal(t, []string{"new balance"}, analysis.Brands)
	assert.Equal(t, []string{"trainers"}, analysis.Keywords)
}

func TestAnalyzeQuery_CategoriesStayInKeywords(t *testing.T) {
	analysis := AnalyzeQuery("black shoes")
	assert.Equal(t, []string{"shoes"}, analysis.Categories)
	assert.Contains(t, analysis.Keywords, "shoes")
}

func TestAnalyzeQuery_Attributes(t *testing.T) {
	analysis := AnalyzeQuery("leather jacket size m")

	require.Len(t, analysis.Attributes, 2)
	assert.Contains(t, analysis.Attributes, domain.QueryAttribute{Key: "material", Value: "leather"})
	assert.Contains(t, analysis.Attributes, domain.QueryAttribute{Key: "size", Value: "m"})
}

func TestAnalyzeQuery_FeatureAttribute(t *testing.T) {
	analysis := AnalyzeQuery("wireless headphones")
	assert.Contains(t, analysis.Attributes, domain.QueryAttribute{Key: "feature", Value: "wireless"})
	assert.Equal(t, []string{"headphones"}, analysis.Keywords)
}

func TestAnalyzeQuery_BareSizeLetterIgnored(t *testing.T) {
	// Without the "size" marker, single letters are not size constraints.
	analysis := AnalyzeQuery("m sweater")
	for _, a := range analysis.Attributes {
		assert.NotEqual(t, "size", a.Key)
	}
}

func TestAnalyzeQuery_StopwordsStripped(t *testing.T) {
	analysis := AnalyzeQuery("show me some nice sneakers for the summer")
	assert.Equal(t, []string{"sneakers", "summer"}, analysis.Keywords)
}

func TestAnalyzeQuery_Empty(t *testing.T) {
	analysis := AnalyzeQuery("   ")
	assert.False(t, analysis.HasConstraints())
	assert.Empty(t, analysis.CoreQuery)
}

func TestExtractTextPrice(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  float64
		found bool
	}{
		{"euro prefix", "nike air max €129,99", 129.99, true},
		{"dollar prefix", "headphones $ 59.99", 59.99, true},
		{"suffix", "sneakers 80 EUR", 80, true},
		{"bare number", "pack of 12", 12, true},
		{"no price", "white sneakers", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractTextPrice(tt.text)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}
