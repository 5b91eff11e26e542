package domain

// Match is a product judged relevant to a query. Matches are owned by the
// caller for the duration of a highlight pass and are never persisted.
type Match struct {
	// ProductID identifies the matched product.
	ProductID string

	// Title is the product title for display.
	Title string

	// Brand is the product brand for display.
	Brand string

	// Price is the free-text price string.
	Price string

	// LinkURL is the product detail page location.
	LinkURL string

	// ImageURL is the product image location.
	ImageURL string

	// Element holds the stored DOM-location hints so the caller can map
	// the match back to an on-page element.
	Element ElementInfo

	// Confidence is the relevance score in [0,1].
	Confidence float64

	// Reason is a human-readable explanation of the match.
	Reason string

	// RetrievalScore is the average similarity across the product's
	// retrieved chunks, when retrieval contributed to the match.
	RetrievalScore float64
}

// MatchResult is the outcome of one matching pass.
type MatchResult struct {
	// Matches are the relevant products, best first.
	Matches []Match

	// Reasoning explains how the result was produced, including why it
	// is empty when it is.
	Reasoning string

	// RetrievedChunkCount is how many chunks passed similarity retrieval.
	RetrievedChunkCount int
}

// IndexStats summarises one indexing pass.
type IndexStats struct {
	// ProductCount is how many products produced at least one chunk.
	ProductCount int

	// ChunkCount is how many chunks were stored.
	ChunkCount int
}
