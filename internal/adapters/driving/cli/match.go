package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

var (
	matchLimit int
	matchJSON  bool
)

var matchCmd = &cobra.Command{
	Use:   "match [query]",
	Short: "Match indexed products against a query",
	Long: `Matches indexed products against a natural language query such as
"white sneakers under 100" and prints the ranked results.

The matching strategy follows the configured match mode: retrieval
(vector ranking), rag (retrieval plus LLM confirmation) or
deterministic (rule-based, offline).`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 10, "maximum number of results")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	query := args[0]

	result, err := matchService.Match(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchLimit > 0 && len(result.Matches) > matchLimit {
		result.Matches = result.Matches[:matchLimit]
	}

	if matchJSON {
		return outputMatchJSON(cmd, result)
	}
	return outputMatchTable(cmd, result)
}

// matchJSONResult is the stable JSON shape for external consumers.
type matchJSONResult struct {
	Matches             []matchJSONEntry `json:"matches"`
	Reasoning           string           `json:"reasoning"`
	RetrievedChunkCount int              `json:"retrieved_chunk_count"`
}

type matchJSONEntry struct {
	ProductID      string   `json:"product_id"`
	Title          string   `json:"title"`
	Brand          string   `json:"brand,omitempty"`
	Price          string   `json:"price,omitempty"`
	LinkURL        string   `json:"link_url,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	TagName        string   `json:"tag_name,omitempty"`
	ClassList      []string `json:"class_list,omitempty"`
	SiblingIndex   int      `json:"sibling_index"`
	Confidence     float64  `json:"confidence"`
	Reason         string   `json:"reason,omitempty"`
	RetrievalScore float64  `json:"retrieval_score"`
}

func outputMatchJSON(cmd *cobra.Command, result domain.MatchResult) error {
	out := matchJSONResult{
		Matches:             make([]matchJSONEntry, 0, len(result.Matches)),
		Reasoning:           result.Reasoning,
		RetrievedChunkCount: result.RetrievedChunkCount,
	}
	for _, m := range result.Matches {
		out.Matches = append(out.Matches, matchJSONEntry{
			ProductID:      m.ProductID,
			Title:          m.Title,
			Brand:          m.Brand,
			Price:          m.Price,
			LinkURL:        m.LinkURL,
			ImageURL:       m.ImageURL,
			TagName:        m.Element.TagName,
			ClassList:      m.Element.ClassList,
			SiblingIndex:   m.Element.SiblingIndex,
			Confidence:     m.Confidence,
			Reason:         m.Reason,
			RetrievalScore: m.RetrievalScore,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchTable(cmd *cobra.Command, result domain.MatchResult) error {
	if len(result.Matches) == 0 {
		cmd.Println("No matches found.")
		if result.Reasoning != "" {
			cmd.Printf("(%s)\n", result.Reasoning)
		}
		return nil
	}

	threshold := domain.DefaultRelevanceThreshold
	if currentSettings != nil {
		threshold = currentSettings.Match.RelevanceThreshold
	}

	cmd.Println("Matches:")
	cmd.Println()
	for i, m := range result.Matches {
		marker := " "
		if m.Confidence >= threshold {
			marker = "*"
		}
		name := m.Title
		if m.Brand != "" {
			name = m.Brand + " " + name
		}
		cmd.Printf("%s [%d] %s (%.2f)\n", marker, i+1, name, m.Confidence)
		if m.Price != "" {
			cmd.Printf("      Price: %s\n", m.Price)
		}
		if m.Reason != "" {
			cmd.Printf("      %s\n", m.Reason)
		}
		cmd.Println()
	}

	cmd.Printf("%d matched, %d chunks retrieved. %s\n",
		len(result.Matches), result.RetrievedChunkCount, result.Reasoning)
	return nil
}
