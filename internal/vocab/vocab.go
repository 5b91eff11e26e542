// Package vocab holds the fixed lexical vocabularies used for attribute
// extraction, query analysis and the fallback embedder. The lists are
// deliberately small: they cover the product categories the matcher is
// tuned for, not a general lexicon.
package vocab

import "strings"

// ProductTypes are product-type nouns, most specific first within a
// category. Extraction takes the first match.
var ProductTypes = []string{
	"sneakers", "sneaker", "trainers", "trainer",
	"boots", "boot", "sandals", "sandal", "heels", "heel",
	"loafers", "loafer", "shoes", "shoe",
	"t-shirt", "tshirt", "shirt", "blouse", "hoodie", "sweater",
	"jumper", "cardigan", "jacket", "coat", "blazer", "dress",
	"skirt", "jeans", "trousers", "pants", "shorts", "leggings",
	"backpack", "handbag", "bag", "wallet", "belt", "scarf",
	"beanie", "cap", "hat", "gloves", "socks",
	"headphones", "earbuds", "earphones", "speaker", "soundbar",
	"smartwatch", "watch", "smartphone", "phone", "laptop",
	"tablet", "camera", "monitor", "keyboard", "mouse",
}

// Colors are recognised colour words.
var Colors = []string{
	"black", "white", "grey", "gray", "red", "blue", "navy",
	"green", "olive", "yellow", "orange", "purple", "pink",
	"brown", "beige", "cream", "tan", "gold", "silver", "khaki",
	"turquoise", "burgundy", "maroon", "teal",
}

// Brands are recognised brand names, lowercase. Multi-word entries are
// matched as phrases.
var Brands = []string{
	"nike", "adidas", "puma", "reebok", "new balance", "converse",
	"vans", "asics", "salomon", "zara", "mango", "pull&bear",
	"bershka", "levi's", "levis", "tommy hilfiger", "calvin klein",
	"lacoste", "ralph lauren", "hugo boss", "gucci", "prada",
	"sony", "samsung", "apple", "bose", "jbl", "sennheiser",
	"philips", "panasonic", "dell", "lenovo", "logitech", "anker",
}

// Materials are recognised material words.
var Materials = []string{
	"leather", "suede", "cotton", "wool", "linen", "silk", "denim",
	"polyester", "nylon", "canvas", "mesh", "velvet", "cashmere",
	"fleece", "rubber", "plastic", "aluminium", "aluminum", "steel",
}

// Styles are recognised style descriptors.
var Styles = []string{
	"casual", "formal", "elegant", "sporty", "vintage", "retro",
	"modern", "classic", "slim", "oversized", "fitted", "loose",
	"chunky", "minimalist", "low", "high",
}

// Categories are coarse category hints recognised in queries.
var Categories = []string{
	"shoes", "footwear", "clothing", "clothes", "fashion",
	"electronics", "audio", "accessories",
}

// Sizes are recognised size tokens.
var Sizes = []string{
	"xs", "s", "m", "l", "xl", "xxl", "small", "medium", "large",
}

// Features are recognised feature phrases.
var Features = []string{
	"noise cancelling", "noise-cancelling", "noise canceling",
	"bluetooth", "wireless", "waterproof", "water-resistant",
	"rechargeable", "foldable", "adjustable", "breathable",
	"lightweight", "portable",
}

// womenTerms and menTerms resolve gender. Women is checked first since
// every men term is a substring of its women counterpart.
var (
	womenTerms = []string{"women", "women's", "womens", "woman", "ladies", "girls", "girl"}
	menTerms   = []string{"men", "men's", "mens", "man", "boys", "boy"}
)

// Stopwords are dropped from queries before keyword extraction.
var Stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "for": true, "with": true, "in": true, "on": true,
	"to": true, "at": true, "by": true, "from": true, "me": true,
	"my": true, "i": true, "want": true, "need": true, "looking": true,
	"find": true, "show": true, "some": true, "any": true, "new": true,
	"that": true, "this": true, "is": true, "are": true, "it": true,
	"please": true, "cheap": true, "good": true, "nice": true,
}

// ContainsWord reports whether text contains word with word boundaries
// on both sides. Both arguments are expected lowercase.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || isBoundary(text[i-1])
		end := i + len(word)
		after := end == len(text) || isBoundary(text[end])
		if before && after {
			return true
		}
		start = i + 1
		if start >= len(text) {
			return false
		}
	}
}

// isBoundary treats anything outside [a-z0-9] as a word boundary.
// Brand names like "pull&bear" are matched as whole phrases, so '&'
// inside them never reaches this check.
func isBoundary(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return false
	case b >= '0' && b <= '9':
		return false
	default:
		return true
	}
}

// Gender resolves the gender signal in text: "women", "men" or "unisex".
func Gender(text string) string {
	for _, t := range womenTerms {
		if ContainsWord(text, t) {
			return "women"
		}
	}
	for _, t := range menTerms {
		if ContainsWord(text, t) {
			return "men"
		}
	}
	return "unisex"
}

// MatchAll returns every vocabulary entry found in text (word-boundary
// matched, phrases included). Text is expected lowercase.
func MatchAll(text string, vocabulary []string) []string {
	var found []string
	for _, v := range vocabulary {
		if ContainsWord(text, v) {
			found = append(found, v)
		}
	}
	return found
}

// MatchFirst returns the first vocabulary entry found in text, or "".
func MatchFirst(text string, vocabulary []string) string {
	for _, v := range vocabulary {
		if ContainsWord(text, v) {
			return v
		}
	}
	return ""
}
