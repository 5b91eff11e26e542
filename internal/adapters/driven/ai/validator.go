package ai

import (
	"context"
	"fmt"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.AIConfigValidator = (*Validator)(nil)

// Validator checks provider configurations by creating the adapter and
// pinging it. Used by the settings service before persisting a provider.
type Validator struct{}

// NewValidator creates a configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the
// provider. Unconfigured settings are valid: they mean the fallback
// embedder runs.
func (v *Validator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}

	svc, err := createRemoteEmbedding(config)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *Validator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(config)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}
