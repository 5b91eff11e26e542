// Package anthropic implements the LLM port against the Anthropic
// messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultModel   = "claude-3-5-haiku-latest"
	defaultTimeout = 60 * time.Second

	apiVersion = "2023-06-01"

	// defaultMaxTokens applies when the caller passes zero; the messages
	// API rejects requests without a max_tokens value.
	defaultMaxTokens = 1024

	requestsPerSecond = 2
	burstSize         = 4
)

// Config holds the Anthropic LLM configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService talks to the Anthropic messages endpoint.
type LLMService struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

type messagesRequest struct {
	Model         string    `json:"model"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   float64   `json:"temperature"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	Messages      []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates an Anthropic LLM service.
func NewLLMService(config Config) (*LLMService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic llm: api key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &LLMService{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}, nil
}

// Complete sends a prompt and returns the model's reply text.
func (s *LLMService) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(messagesRequest{
		Model:         s.config.Model,
		MaxTokens:     maxTokens,
		Temperature:   opts.Temperature,
		StopSequences: opts.StopWords,
		Messages:      []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call messages api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read messages response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse messages response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("messages api error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("messages api returned status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("messages api returned no text content")
	}
	return sb.String(), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.config.Model
}

// Ping verifies the API is reachable and the key is accepted. The
// messages API has no cheap list endpoint, so this sends a minimal
// one-token request.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.Complete(ctx, "ping", driven.CompleteOptions{MaxTokens: 1})
	if err != nil {
		return fmt.Errorf("anthropic ping: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
