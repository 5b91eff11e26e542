package domain

import "time"

// ChunkType identifies the semantic slice of a product a chunk carries.
type ChunkType string

// Available chunk types.
const (
	// ChunkTypeTitleBrand is the brand + title concatenation.
	ChunkTypeTitleBrand ChunkType = "title_brand"

	// ChunkTypeAttributes is the extracted-attribute summary.
	ChunkTypeAttributes ChunkType = "attributes"

	// ChunkTypeDescription is the (possibly windowed) description text.
	ChunkTypeDescription ChunkType = "description"
)

// IsValid returns true if the chunk type is recognised.
func (t ChunkType) IsValid() bool {
	switch t {
	case ChunkTypeTitleBrand, ChunkTypeAttributes, ChunkTypeDescription:
		return true
	default:
		return false
	}
}

// Chunk is a retrievable sub-document of one product, carrying its own
// embedding. Chunks are created at index time and never mutated; they are
// removed only by a full store clear.
type Chunk struct {
	// ID is the unique identifier for the chunk (store-assigned).
	ID string

	// ProductID links to the owning product.
	ProductID string

	// Type is the semantic slice this chunk covers.
	Type ChunkType

	// Content is the chunk text.
	Content string

	// Position is the window index for split descriptions, 0 otherwise.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Domain is the origin the product was captured from.
	Domain string

	// IndexedAt is when the chunk was created.
	IndexedAt time.Time
}

// RetrievedChunk is a chunk annotated with its similarity to the current
// query. It is ephemeral: produced by retrieval, consumed by the matcher.
type RetrievedChunk struct {
	Chunk Chunk

	// Similarity is the cosine similarity to the query embedding.
	Similarity float64
}
