package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopmatch-labs/shopmatch-cli/internal/capture"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index [capture file or directory]",
	Short: "Index captured products",
	Long: `Reads capture files (JSON snapshots of shopping pages) and indexes
their products: chunking, embedding and storing them for matching.

With --watch the path must be a directory; new or rewritten capture
files are indexed as they appear until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "watch the directory for new capture files")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if indexWatch {
		if !info.IsDir() {
			return errors.New("--watch requires a directory")
		}
		return runIndexWatch(cmd, path)
	}

	var products []domain.RawProduct
	if info.IsDir() {
		products, err = capture.ReadDir(path)
	} else {
		products, err = capture.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if len(products) == 0 {
		cmd.Println("No products found in capture.")
		return nil
	}

	stats, err := indexService.IndexProducts(cmd.Context(), products)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d products (%d chunks).\n", stats.ProductCount, stats.ChunkCount)
	return nil
}

func runIndexWatch(cmd *cobra.Command, dir string) error {
	watcher, err := capture.NewWatcher(dir, func(ctx context.Context, products []domain.RawProduct) error {
		stats, err := indexService.IndexProducts(ctx, products)
		if err != nil {
			return err
		}
		cmd.Printf("Indexed %d products (%d chunks).\n", stats.ProductCount, stats.ChunkCount)
		return nil
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for capture files. Press Ctrl+C to stop.\n", dir)
	if err := watcher.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
