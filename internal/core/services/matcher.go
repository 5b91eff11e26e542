package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// Ensure MatcherService implements the interface.
var _ driving.MatchService = (*MatcherService)(nil)

// llmCacheSize bounds the LLM response cache. Entries are keyed by a
// content hash of (query, context), so repeated queries against an
// unchanged index never pay for a second LLM call.
const llmCacheSize = 128

// fallbackMatchCount is how many retrieval candidates stand in for the
// LLM verdict when the LLM path fails.
const fallbackMatchCount = 3

// fallbackConfidenceFactor discounts fallback matches so callers can
// tell them from LLM-confirmed ones.
const fallbackConfidenceFactor = 0.8

// titleKeyLength is how much of the normalised title the dedup key keeps.
const titleKeyLength = 30

// llmMaxTokens bounds the confirmation completion.
const llmMaxTokens = 1024

// MatcherService aggregates retrieved chunks per product and judges
// relevance, optionally confirming with an LLM. Its Match method never
// returns an error: every failure degrades into the result's Reasoning.
type MatcherService struct {
	store     driven.ProductStore
	retrieval *RetrievalService
	llm       driven.LLMService
	settings  domain.MatchSettings
	llmCache  *lru.Cache[string, string]
}

// NewMatcherService creates a new matcher. llm may be nil, in which case
// matching is retrieval-only regardless of the configured mode.
func NewMatcherService(
	store driven.ProductStore,
	retrieval *RetrievalService,
	llm driven.LLMService,
	settings domain.MatchSettings,
) *MatcherService {
	cache, _ := lru.New[string, string](llmCacheSize)
	return &MatcherService{
		store:     store,
		retrieval: retrieval,
		llm:       llm,
		settings:  settings,
		llmCache:  cache,
	}
}

// productGroup aggregates one product's retrieved chunks.
type productGroup struct {
	productID     string
	chunks        []domain.RetrievedChunk
	maxSimilarity float64
	avgSimilarity float64
}

// Match runs the full matching pass for a query.
func (s *MatcherService) Match(ctx context.Context, query string) (domain.MatchResult, error) {
	logger.Section("Match Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.MatchResult{Reasoning: "empty query"}, nil
	}

	// History is advisory; never let it fail the match.
	if err := s.store.RecordQuery(ctx, query, time.Now()); err != nil {
		logger.Warn("Recording query history failed: %v", err)
	}

	retrieved, err := s.retrieval.Retrieve(ctx, query, s.settings.MaxChunks)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return domain.MatchResult{
			Reasoning: fmt.Sprintf("retrieval failed: %v", err),
		}, nil
	}
	if len(retrieved) == 0 {
		return domain.MatchResult{
			Reasoning: "no indexed chunks were similar enough to the query",
		}, nil
	}

	groups := groupByProduct(retrieved)
	logger.Debug("Grouped %d chunks into %d products", len(retrieved), len(groups))

	candidates := s.hydrateCandidates(ctx, groups)
	candidates = DedupeMatches(candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	result := domain.MatchResult{
		RetrievedChunkCount: len(retrieved),
	}

	if s.llm == nil || !s.settings.Mode.RequiresLLM() {
		result.Matches = candidates
		result.Reasoning = fmt.Sprintf(
			"ranked %d products by retrieval similarity", len(candidates))
		return result, nil
	}

	matches, reasoning := s.confirmWithLLM(ctx, query, groups, candidates)
	result.Matches = matches
	result.Reasoning = reasoning
	return result, nil
}

// groupByProduct buckets retrieved chunks by owning product and computes
// per-product aggregate similarities. Group order follows first
// appearance in the ranked chunk list.
func groupByProduct(retrieved []domain.RetrievedChunk) []productGroup {
	index := make(map[string]int)
	var groups []productGroup

	for _, rc := range retrieved {
		id := rc.Chunk.ProductID
		at, ok := index[id]
		if !ok {
			at = len(groups)
			index[id] = at
			groups = append(groups, productGroup{productID: id})
		}
		groups[at].chunks = append(groups[at].chunks, rc)
	}

	for i := range groups {
		var sum float64
		for _, rc := range groups[i].chunks {
			sum += rc.Similarity
			if rc.Similarity > groups[i].maxSimilarity {
				groups[i].maxSimilarity = rc.Similarity
			}
		}
		groups[i].avgSimilarity = sum / float64(len(groups[i].chunks))
	}

	return groups
}

// hydrateCandidates builds candidate matches for every group above the
// similarity threshold. A missing metadata record means the product was
// only partially indexed when retrieval snapshotted the store; such
// candidates are skipped rather than surfaced half-empty.
func (s *MatcherService) hydrateCandidates(ctx context.Context, groups []productGroup) []domain.Match {
	candidates := make([]domain.Match, 0, len(groups))

	for _, g := range groups {
		if g.maxSimilarity <= s.settings.SimilarityThreshold {
			continue
		}

		meta, err := s.store.MetadataByProductID(ctx, g.productID)
		if err != nil {
			logger.Debug("Skipping product %s: metadata lookup failed: %v", g.productID, err)
			continue
		}

		candidates = append(candidates, domain.Match{
			ProductID:      g.productID,
			Title:          meta.Title,
			Brand:          meta.Brand,
			Price:          meta.Price,
			LinkURL:        meta.LinkURL,
			ImageURL:       meta.ImageURL,
			Element:        meta.Element,
			Confidence:     g.maxSimilarity,
			Reason:         fmt.Sprintf("retrieval similarity %.2f", g.maxSimilarity),
			RetrievalScore: g.avgSimilarity,
		})
	}

	return candidates
}

// DedupeMatches collapses matches that share a normalised-title key,
// keeping the higher-confidence one. Stable under re-application.
func DedupeMatches(matches []domain.Match) []domain.Match {
	best := make(map[string]int)
	result := make([]domain.Match, 0, len(matches))

	for _, m := range matches {
		key := normalisedTitleKey(m.Title)
		if key == "" {
			result = append(result, m)
			continue
		}
		if at, ok := best[key]; ok {
			if m.Confidence > result[at].Confidence {
				result[at] = m
			}
			continue
		}
		best[key] = len(result)
		result = append(result, m)
	}

	return result
}

// normalisedTitleKey lowercases, strips punctuation, collapses whitespace
// and truncates so near-identical listings collide.
func normalisedTitleKey(title string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	key := strings.TrimSpace(b.String())
	if len(key) > titleKeyLength {
		key = key[:titleKeyLength]
	}
	return key
}

// llmVerdict is the structured response expected from the LLM.
type llmVerdict struct {
	Matches []struct {
		ProductID  string  `json:"productId"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	} `json:"matches"`
}

// confirmWithLLM asks the LLM to confirm which candidates satisfy the
// query exactly. Any failure falls back to the top retrieval candidates
// at a discounted confidence.
func (s *MatcherService) confirmWithLLM(
	ctx context.Context, query string, groups []productGroup, candidates []domain.Match,
) ([]domain.Match, string) {
	if len(candidates) == 0 {
		return nil, "no candidates above threshold to confirm"
	}

	contextBlock := s.buildContext(ctx, groups, candidates)
	prompt := buildConfirmationPrompt(query, contextBlock)

	response, err := s.completeCached(ctx, query, contextBlock, prompt)
	if err != nil {
		logger.Warn("LLM confirmation failed: %v", err)
		return fallbackMatches(candidates),
			fmt.Sprintf("LLM unavailable (%v); returning top retrieval matches", err)
	}

	verdict, err := parseVerdict(response)
	if err != nil {
		logger.Warn("LLM response unparseable: %v", err)
		return fallbackMatches(candidates),
			"LLM response was not valid JSON; returning top retrieval matches"
	}

	byID := make(map[string]domain.Match, len(candidates))
	for _, c := range candidates {
		byID[c.ProductID] = c
	}

	var confirmed []domain.Match
	for _, m := range verdict.Matches {
		candidate, ok := byID[m.ProductID]
		if !ok {
			logger.Debug("LLM returned unknown product id %q", m.ProductID)
			continue
		}
		candidate.Confidence = clamp01(m.Confidence)
		if m.Reason != "" {
			candidate.Reason = m.Reason
		}
		confirmed = append(confirmed, candidate)
	}

	if len(confirmed) == 0 {
		return fallbackMatches(candidates),
			"LLM confirmed no products; returning top retrieval matches"
	}

	confirmed = DedupeMatches(confirmed)
	sort.SliceStable(confirmed, func(i, j int) bool {
		return confirmed[i].Confidence > confirmed[j].Confidence
	})
	return confirmed, fmt.Sprintf("LLM confirmed %d of %d candidates", len(confirmed), len(candidates))
}

// completeCached runs the completion through the bounded response cache.
func (s *MatcherService) completeCached(ctx context.Context, query, contextBlock, prompt string) (string, error) {
	key := cacheKey(query, contextBlock)
	if cached, ok := s.llmCache.Get(key); ok {
		logger.Debug("LLM cache hit")
		return cached, nil
	}

	response, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   llmMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	s.llmCache.Add(key, response)
	return response, nil
}

// buildContext renders one block per candidate product for the prompt.
func (s *MatcherService) buildContext(ctx context.Context, groups []productGroup, candidates []domain.Match) string {
	byID := make(map[string]productGroup, len(groups))
	for _, g := range groups {
		byID[g.productID] = g
	}

	var b strings.Builder
	for _, c := range candidates {
		g := byID[c.ProductID]

		fmt.Fprintf(&b, "Product %s\n", c.ProductID)
		fmt.Fprintf(&b, "  Name: %s\n", strings.TrimSpace(c.Brand+" "+c.Title))
		if c.Price != "" {
			fmt.Fprintf(&b, "  Price: %s\n", c.Price)
		}
		fmt.Fprintf(&b, "  Best similarity: %.2f\n", c.Confidence)

		for _, rc := range g.chunks {
			if rc.Chunk.Type != domain.ChunkTypeAttributes {
				continue
			}
			fmt.Fprintf(&b, "  Attributes: %s\n", rc.Chunk.Content)
		}
		for _, rc := range g.chunks {
			if rc.Chunk.Type != domain.ChunkTypeDescription {
				continue
			}
			excerpt := rc.Chunk.Content
			if len(excerpt) > 200 {
				excerpt = excerpt[:200] + "..."
			}
			fmt.Fprintf(&b, "  Description: %s\n", excerpt)
			break
		}

		if meta, err := s.store.MetadataByProductID(ctx, c.ProductID); err == nil && meta.RawText != "" {
			raw := meta.RawText
			if len(raw) > 300 {
				raw = raw[:300] + "..."
			}
			fmt.Fprintf(&b, "  Full text: %s\n", raw)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// buildConfirmationPrompt builds the strict exact-attribute prompt.
func buildConfirmationPrompt(query, contextBlock string) string {
	var b strings.Builder
	b.WriteString("You are verifying which products match a shopping query.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- A requested attribute must literally appear in the product data. ")
	b.WriteString("If the query asks for \"white\", the product must say \"white\"; ")
	b.WriteString("near-synonyms like \"cream\" or \"off-white\" do NOT count.\n")
	b.WriteString("- A requested brand must match exactly.\n")
	b.WriteString("- Price bounds must be satisfied when the product shows a price.\n")
	b.WriteString("- Exclude products that merely look related.\n\n")
	fmt.Fprintf(&b, "Query: %s\n\nProducts:\n%s\n", query, contextBlock)
	b.WriteString("Respond with ONLY this JSON, no prose:\n")
	b.WriteString(`{"matches": [{"productId": "...", "confidence": 0.0, "reason": "..."}]}`)
	return b.String()
}

// parseVerdict parses the LLM response defensively: everything outside
// the outermost braces is discarded before unmarshalling.
func parseVerdict(response string) (*llmVerdict, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(response[start:end+1]), &verdict); err != nil {
		return nil, fmt.Errorf("unmarshal verdict: %w", err)
	}
	return &verdict, nil
}

// fallbackMatches returns the top retrieval candidates at a discounted
// confidence, so a broken LLM path still produces usable output.
func fallbackMatches(candidates []domain.Match) []domain.Match {
	n := len(candidates)
	if n > fallbackMatchCount {
		n = fallbackMatchCount
	}

	fallback := make([]domain.Match, n)
	for i := 0; i < n; i++ {
		fallback[i] = candidates[i]
		fallback[i].Confidence *= fallbackConfidenceFactor
		fallback[i].Reason = fmt.Sprintf(
			"retrieval fallback (similarity %.2f)", candidates[i].Confidence)
	}
	return fallback
}

// cacheKey hashes (query, context) into a compact cache key.
func cacheKey(query, contextBlock string) string {
	h := fnv.New64a()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write([]byte(contextBlock))
	return fmt.Sprintf("%016x", h.Sum64())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
