package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed products",
	Long:  `Removes all indexed chunks, product metadata and query history.`,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		cmd.Print("Remove all indexed data? [y/N]: ")
		var answer string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil || (answer != "y" && answer != "Y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := indexService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Index cleared.")
	return nil
}
