package services

import (
	"fmt"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMatchMode           = "match.mode"
	keySimilarityThreshold = "match.similarity_threshold"
	keyMaxChunks           = "match.max_chunks"
	keyRelevanceThreshold  = "match.relevance_threshold"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Match: domain.MatchSettings{
			Mode:                s.getMatchMode(defaults.Match.Mode),
			SimilarityThreshold: s.getFloat(keySimilarityThreshold, defaults.Match.SimilarityThreshold),
			MaxChunks:           s.getInt(keyMaxChunks, defaults.Match.MaxChunks),
			RelevanceThreshold:  s.getFloat(keyRelevanceThreshold, defaults.Match.RelevanceThreshold),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyMatchMode, settings.Match.Mode.String()},
		{keySimilarityThreshold, settings.Match.SimilarityThreshold},
		{keyMaxChunks, settings.Match.MaxChunks},
		{keyRelevanceThreshold, settings.Match.RelevanceThreshold},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
	}

	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// API keys are only written when present so a partial save never
	// wipes stored credentials.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return s.configStore.Save()
}

// SetMatchMode updates the match mode.
func (s *SettingsService) SetMatchMode(mode domain.MatchMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown match mode %q", domain.ErrInvalidInput, mode)
	}
	if err := s.configStore.Set(keyMatchMode, mode.String()); err != nil {
		return fmt.Errorf("save match mode: %w", err)
	}
	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = apiKey
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.APIKey = apiKey
	return s.Save(settings)
}

// Validate checks if current settings are valid for the configured mode.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Match.Mode.RequiresLLM() && !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: match mode %q needs an LLM provider",
			domain.ErrLLMUnavailable, settings.Match.Mode)
	}
	if settings.Match.SimilarityThreshold < 0 || settings.Match.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be in [0,1]", domain.ErrInvalidInput)
	}
	if settings.Match.RelevanceThreshold < 0 || settings.Match.RelevanceThreshold > 1 {
		return fmt.Errorf("%w: relevance threshold must be in [0,1]", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// getMatchMode reads the stored match mode, falling back on invalid values.
func (s *SettingsService) getMatchMode(fallback domain.MatchMode) domain.MatchMode {
	mode := domain.MatchMode(s.configStore.GetString(keyMatchMode))
	if !mode.IsValid() {
		return fallback
	}
	return mode
}

// getProvider reads a stored provider; invalid values read as unset.
func (s *SettingsService) getProvider(key string) domain.AIProvider {
	p := domain.AIProvider(s.configStore.GetString(key))
	if !p.IsValid() {
		return ""
	}
	return p
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}
