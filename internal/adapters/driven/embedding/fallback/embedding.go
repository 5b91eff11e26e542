// Package fallback provides a deterministic, dependency-free embedding
// service. It is always available: when no remote embedding provider is
// configured (or a configured one is unreachable), matching runs on
// these vectors instead of failing.
//
// The vector is built from two signals: a fixed set of semantic
// categories (product types, colours, brands, materials, styles, gender
// terms), each owning a few dedicated slots filled with decreasing
// weight, and a hashed bag-of-words over the remaining content. The
// result is L2-normalised.
package fallback

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/vocab"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Dimensions is the fixed vector size.
const Dimensions = 256

// slotsPerCategory is how many leading slots each semantic category owns.
const slotsPerCategory = 8

// hashWeight is the per-occurrence contribution of a hashed content word.
const hashWeight = 0.1

// minWordLength filters out short function words from the hashed bag.
const minWordLength = 3

// category pairs a vocabulary with a weight for its slot block.
type category struct {
	terms  []string
	weight float64
}

// categories define the leading slot blocks, in fixed order. Product
// type and colour dominate because they discriminate best in practice.
var categories = []category{
	{vocab.ProductTypes, 1.0},
	{vocab.Colors, 0.9},
	{vocab.Brands, 0.8},
	{vocab.Materials, 0.6},
	{vocab.Styles, 0.5},
	{[]string{"women", "womens", "ladies", "men", "mens", "unisex"}, 0.4},
}

// hashSlotStart is the first slot available to hashed content words.
var hashSlotStart = len(categories) * slotsPerCategory

// EmbeddingService is the deterministic fallback embedder.
type EmbeddingService struct{}

// NewEmbeddingService creates the fallback embedder.
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

// Embed builds the fallback vector for the given text. Identical input
// always yields an identical vector; empty or featureless input yields
// the zero vector (normalisation is a no-op on zero norm).
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, Dimensions)
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return vec, nil
	}

	for ci, cat := range categories {
		count := 0
		for _, term := range cat.terms {
			if vocab.ContainsWord(lower, term) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		base := ci * slotsPerCategory
		for j := 0; j < slotsPerCategory; j++ {
			// Decreasing weight across the category's slots spreads the
			// signal so one crowded category can't saturate a single axis.
			vec[base+j] += float32(cat.weight * float64(count) / float64(j+1))
		}
	}

	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(word) < minWordLength {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		slot := hashSlotStart + int(h.Sum32()%uint32(Dimensions-hashSlotStart))
		vec[slot] += hashWeight
	}

	normalise(vec)
	return vec, nil
}

// EmbedBatch embeds each text in turn. The fallback has no batching
// advantage; this exists to satisfy the port.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the fixed vector size.
func (s *EmbeddingService) Dimensions() int {
	return Dimensions
}

// ModelName identifies the fallback embedder.
func (s *EmbeddingService) ModelName() string {
	return "lexical-fallback"
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases nothing.
func (s *EmbeddingService) Close() error {
	return nil
}

// normalise scales vec to unit L2 norm in place; zero vectors pass through.
func normalise(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
