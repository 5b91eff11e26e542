// Package cli implements the shopmatch command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/ai"
	configfile "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/config/file"
	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/storage/memory"
	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/services"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
	flagEphemeral bool
)

// Wired services, initialised by initServices.
var (
	store           driven.ProductStore
	settingsService driving.SettingsService
	indexService    driving.IndexService
	matchService    driving.MatchService
	scoreService    driving.ScoreService
	llmService      driven.LLMService
	currentSettings *domain.AppSettings
)

var rootCmd = &cobra.Command{
	Use:   "shopmatch",
	Short: "Match captured shopping-page products against natural language queries",
	Long: `Shopmatch indexes products captured from shopping pages and matches
them against free-text queries like "white sneakers under 100".

Matching runs locally: captured products are chunked, embedded and
ranked by vector similarity. An LLM provider can optionally confirm
matches (rag mode), and a rule-based scorer provides a fully offline
deterministic mode.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.shopmatch/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.shopmatch)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep the index in memory, nothing is written to disk")
}

// ExecuteContext runs the root command under the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initServices wires the adapter stack behind the core services.
func initServices() error {
	configStore, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settingsService = services.NewSettingsService(configStore, ai.NewValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	currentSettings = settings

	if flagEphemeral {
		store = memory.NewStore()
	} else {
		store, err = sqlite.NewStore(flagDataDir)
		if err != nil {
			return fmt.Errorf("opening product store: %w", err)
		}
	}

	embedding := ai.CreateEmbeddingService(&settings.Embedding)
	logger.Debug("Embedding model: %s (%d dims)", embedding.ModelName(), embedding.Dimensions())

	indexService = services.NewIndexerService(store, embedding)
	scoreService = services.NewScorerService()

	// RAG mode needs an LLM; an unreachable provider degrades to
	// retrieval-only rather than failing every match.
	if settings.Match.Mode.RequiresLLM() {
		llmService, err = ai.CreateAndValidateLLMService(&settings.LLM)
		if err != nil {
			logger.Warn("%v; continuing without LLM confirmation", err)
			llmService = nil
		}
	}

	if settings.Match.Mode == domain.MatchModeDeterministic {
		matchService = services.NewDeterministicMatcher(store, services.NewScorerService())
	} else {
		retrieval := services.NewRetrievalService(store, embedding, settings.Match)
		matchService = services.NewMatcherService(store, retrieval, llmService, settings.Match)
	}

	return nil
}

// closeServices releases wired resources.
func closeServices() {
	if llmService != nil {
		llmService.Close()
		llmService = nil
	}
	if store != nil {
		store.Close()
		store = nil
	}
}
