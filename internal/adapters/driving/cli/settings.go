package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

var (
	settingsModel   string
	settingsAPIKey  string
	settingsBaseURL string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change application settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsModeCmd = &cobra.Command{
	Use:       "mode [retrieval|rag|deterministic]",
	Short:     "Set the match mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"retrieval", "rag", "deterministic"},
	RunE:      runSettingsMode,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding [ollama|openai]",
	Short: "Configure the embedding provider",
	Long: `Configures the remote embedding provider. Without a configured
provider, matching runs on the built-in deterministic fallback embedder.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm [ollama|openai|anthropic]",
	Short: "Configure the LLM provider for rag mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsLLM,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current settings and provider connectivity",
	RunE:  runSettingsValidate,
}

func init() {
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsLLMCmd} {
		c.Flags().StringVar(&settingsModel, "model", "", "model name (provider default if empty)")
		c.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key (openai/anthropic)")
		c.Flags().StringVar(&settingsBaseURL, "base-url", "", "API base URL (ollama or compatible servers)")
	}

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	cmd.Printf("Match mode:           %s\n", settings.Match.Mode.Description())
	cmd.Printf("Similarity threshold: %.2f\n", settings.Match.SimilarityThreshold)
	cmd.Printf("Max chunks:           %d\n", settings.Match.MaxChunks)
	cmd.Printf("Relevance threshold:  %.2f\n", settings.Match.RelevanceThreshold)
	cmd.Println()

	if settings.Embedding.IsConfigured() {
		cmd.Printf("Embedding: %s (%s)\n", settings.Embedding.Provider, settings.Embedding.Model)
	} else {
		cmd.Println("Embedding: built-in fallback (no provider configured)")
	}
	if settings.LLM.IsConfigured() {
		cmd.Printf("LLM:       %s (%s)\n", settings.LLM.Provider, settings.LLM.Model)
	} else {
		cmd.Println("LLM:       not configured")
	}
	return nil
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	mode := domain.MatchMode(args[0])
	if err := settingsService.SetMatchMode(mode); err != nil {
		return err
	}
	cmd.Printf("Match mode set to %s.\n", mode)
	if mode.RequiresLLM() {
		if err := settingsService.Validate(); err != nil {
			cmd.Printf("Note: %v\n", err)
		}
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	provider := domain.AIProvider(args[0])
	if err := settingsService.SetEmbeddingProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return err
	}
	if settingsBaseURL != "" {
		settings, err := settingsService.Get()
		if err != nil {
			return err
		}
		settings.Embedding.BaseURL = settingsBaseURL
		if err := settingsService.Save(settings); err != nil {
			return err
		}
	}
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("Warning: provider saved but unreachable: %v\n", err)
		return nil
	}
	cmd.Printf("Embedding provider set to %s.\n", provider)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, args []string) error {
	provider := domain.AIProvider(args[0])
	if err := settingsService.SetLLMProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return err
	}
	if settingsBaseURL != "" {
		settings, err := settingsService.Get()
		if err != nil {
			return err
		}
		settings.LLM.BaseURL = settingsBaseURL
		if err := settingsService.Save(settings); err != nil {
			return err
		}
	}
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("Warning: provider saved but unreachable: %v\n", err)
		return nil
	}
	cmd.Printf("LLM provider set to %s.\n", provider)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if err := settingsService.Validate(); err != nil {
		return err
	}
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	if err := settingsService.ValidateLLMConfig(); err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}
	cmd.Println("Settings are valid.")
	return nil
}
