package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [query] [product text]",
	Short: "Score a product text against a query",
	Long: `Runs the deterministic rule-based scorer over one product text and
prints the score together with the parsed query constraints. Useful for
understanding why a product did or did not match.`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	query, productText := args[0], args[1]

	analysis := scoreService.Analyze(query)
	score := scoreService.Score(productText, query)

	cmd.Printf("Score: %.3f\n", score)
	cmd.Println()
	cmd.Println("Query analysis:")
	if len(analysis.Keywords) > 0 {
		cmd.Printf("  keywords:   %s\n", strings.Join(analysis.Keywords, ", "))
	}
	if len(analysis.Brands) > 0 {
		cmd.Printf("  brands:     %s\n", strings.Join(analysis.Brands, ", "))
	}
	if len(analysis.Colors) > 0 {
		cmd.Printf("  colors:     %s\n", strings.Join(analysis.Colors, ", "))
	}
	if len(analysis.Categories) > 0 {
		cmd.Printf("  categories: %s\n", strings.Join(analysis.Categories, ", "))
	}
	for _, attr := range analysis.Attributes {
		cmd.Printf("  attribute:  %s=%s\n", attr.Key, attr.Value)
	}
	for _, pc := range analysis.Prices {
		cmd.Printf("  price:      %s %.2f %s\n", pc.Type, pc.Value, pc.Currency)
	}
	if !analysis.HasConstraints() {
		cmd.Println("  (no typed constraints; scored by word overlap)")
	}
	return nil
}
