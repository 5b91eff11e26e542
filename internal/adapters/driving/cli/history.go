package cli

import (
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent match queries",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	queries, err := store.RecentQueries(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		cmd.Println("No queries recorded yet.")
		return nil
	}
	for i, q := range queries {
		cmd.Printf("  [%d] %s\n", i+1, q)
	}
	return nil
}
