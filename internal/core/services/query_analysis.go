package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/vocab"
)

// Price constraint patterns. Phrased bounds come first; a bare
// currency-marked amount is read as a budget, i.e. an upper bound.
var (
	priceMaxRe      = regexp.MustCompile(`(?i)(?:under|below|less than|cheaper than|max(?:imum)?(?: of)?)\s*([€$£]?)\s*(\d+(?:[.,]\d{1,2})?)`)
	priceMinRe      = regexp.MustCompile(`(?i)(?:above|over|more than|at least|min(?:imum)?(?: of)?)\s*([€$£]?)\s*(\d+(?:[.,]\d{1,2})?)`)
	priceCurrPreRe  = regexp.MustCompile(`([€$£])\s*(\d+(?:[.,]\d{1,2})?)`)
	priceCurrSufRe  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{1,2})?)\s*(€|\$|£|eur|euros?|usd|dollars?|gbp|pounds?)`)
	priceInTextRe   = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)
	nonWordSplitRe  = regexp.MustCompile(`[^a-z0-9&'-]+`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// AnalyzeQuery decomposes a free-text query into typed constraints:
// price bounds, brands, colours, categories and attributes, plus the
// residual core keywords with constraint tokens and stopwords stripped.
func AnalyzeQuery(query string) domain.QueryAnalysis {
	lower := strings.ToLower(strings.TrimSpace(query))
	analysis := domain.QueryAnalysis{}
	if lower == "" {
		return analysis
	}

	remaining := lower

	// Price constraints first: their phrasing would otherwise leak
	// number-adjacent words into the keyword list.
	analysis.Prices, remaining = extractPrices(remaining)

	for _, brand := range vocab.MatchAll(remaining, vocab.Brands) {
		analysis.Brands = append(analysis.Brands, brand)
		remaining = removePhrase(remaining, brand)
	}
	for _, color := range vocab.MatchAll(remaining, vocab.Colors) {
		analysis.Colors = append(analysis.Colors, color)
		remaining = removePhrase(remaining, color)
	}
	for _, cat := range vocab.MatchAll(remaining, vocab.Categories) {
		analysis.Categories = append(analysis.Categories, cat)
		// Category words stay in the residual query: "shoes" is both a
		// category hint and a useful keyword.
	}

	analysis.Attributes, remaining = extractAttributes(remaining)

	// Residual core query: strip stopwords, collapse whitespace.
	var keywords []string
	var core []string
	for _, w := range nonWordSplitRe.Split(remaining, -1) {
		w = strings.Trim(w, "'-")
		if w == "" || vocab.Stopwords[w] {
			continue
		}
		core = append(core, w)
		if len(w) > 2 {
			keywords = append(keywords, w)
		}
	}
	analysis.CoreQuery = strings.Join(core, " ")
	analysis.Keywords = keywords

	return analysis
}

// extractPrices pulls all price constraints out of the query and returns
// the query with the matched spans removed.
func extractPrices(q string) ([]domain.PriceConstraint, string) {
	var constraints []domain.PriceConstraint

	take := func(re *regexp.Regexp, typ domain.PriceConstraintType, currencyFirst bool) {
		for _, m := range re.FindAllStringSubmatch(q, -1) {
			currency, number := m[1], m[2]
			if !currencyFirst {
				number, currency = m[1], m[2]
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
			if err != nil {
				continue
			}
			constraints = append(constraints, domain.PriceConstraint{
				Type:     typ,
				Value:    value,
				Currency: normaliseCurrency(currency),
			})
		}
		q = re.ReplaceAllString(q, " ")
	}

	take(priceMaxRe, domain.PriceMax, true)
	take(priceMinRe, domain.PriceMin, true)
	// Bare currency amounts are budgets.
	take(priceCurrPreRe, domain.PriceMax, true)
	take(priceCurrSufRe, domain.PriceMax, false)

	return constraints, whitespaceRunRe.ReplaceAllString(q, " ")
}

// extractAttributes pulls typed size/material/style/feature constraints.
func extractAttributes(q string) ([]domain.QueryAttribute, string) {
	var attrs []domain.QueryAttribute

	for _, m := range vocab.MatchAll(q, vocab.Materials) {
		attrs = append(attrs, domain.QueryAttribute{Key: "material", Value: m})
		q = removePhrase(q, m)
	}
	for _, f := range vocab.MatchAll(q, vocab.Features) {
		attrs = append(attrs, domain.QueryAttribute{Key: "feature", Value: f})
		q = removePhrase(q, f)
	}
	for _, s := range vocab.MatchAll(q, vocab.Styles) {
		attrs = append(attrs, domain.QueryAttribute{Key: "style", Value: s})
		q = removePhrase(q, s)
	}
	// Sizes only match after an explicit "size" marker; bare single
	// letters are too noisy.
	if i := strings.Index(q, "size "); i >= 0 {
		rest := q[i+len("size "):]
		if s := vocab.MatchFirst(rest, vocab.Sizes); s != "" {
			attrs = append(attrs, domain.QueryAttribute{Key: "size", Value: s})
			q = removePhrase(q, "size "+s)
		}
	}

	return attrs, q
}

// removePhrase blanks the first word-boundary occurrence of phrase in q.
func removePhrase(q, phrase string) string {
	i := strings.Index(q, phrase)
	for i >= 0 {
		end := i + len(phrase)
		okBefore := i == 0 || !isAlnum(q[i-1])
		okAfter := end == len(q) || !isAlnum(q[end])
		if okBefore && okAfter {
			return whitespaceRunRe.ReplaceAllString(q[:i]+" "+q[end:], " ")
		}
		next := strings.Index(q[i+1:], phrase)
		if next < 0 {
			break
		}
		i = i + 1 + next
	}
	return q
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func normaliseCurrency(c string) string {
	switch strings.ToLower(c) {
	case "€", "eur", "euro", "euros":
		return "EUR"
	case "$", "usd", "dollar", "dollars":
		return "USD"
	case "£", "gbp", "pound", "pounds":
		return "GBP"
	case "":
		return ""
	default:
		return strings.ToUpper(c)
	}
}

// extractTextPrice finds the first numeric price in product text.
// Returns false when the text carries no extractable price.
func extractTextPrice(text string) (float64, bool) {
	lower := strings.ToLower(text)

	// Prefer currency-marked amounts over bare numbers.
	if m := priceCurrPreRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64); err == nil {
			return v, true
		}
	}
	if m := priceCurrSufRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return v, true
		}
	}
	if m := priceInTextRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
