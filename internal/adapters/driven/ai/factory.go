// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	fallbackembed "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/embedding/fallback"
	ollamaembed "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/embedding/openai"
	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/embedding/resilient"
	anthropicllm "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/llm/openai"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service for the given
// settings, always wrapped so embedding cannot fail outward. When no
// remote provider is configured (or it does not answer the initial
// ping), the deterministic fallback embedder serves alone.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	primary, err := createRemoteEmbedding(settings)
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
		primary = nil
	}
	if primary != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := primary.Ping(ctx); err != nil {
			logger.Warn("Embedding provider unreachable, falling back: %v", err)
			primary.Close()
			primary = nil
		}
	}
	if primary == nil {
		return fallbackembed.NewEmbeddingService()
	}
	return resilient.NewEmbeddingService(primary)
}

// createRemoteEmbedding builds the configured remote embedding adapter,
// or nil when no provider is configured.
func createRemoteEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity. Returns nil, nil when no provider is configured.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'shopmatch settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'shopmatch settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}
