package domain

const unknownDescription = "Unknown"

// MatchMode defines how a matching pass judges relevance.
type MatchMode string

// Available match modes.
const (
	// MatchModeRetrieval uses vector retrieval ranking only.
	MatchModeRetrieval MatchMode = "retrieval"

	// MatchModeRAG uses vector retrieval plus LLM confirmation.
	MatchModeRAG MatchMode = "rag"

	// MatchModeDeterministic uses the rule-based query scorer only.
	// Works fully offline.
	MatchModeDeterministic MatchMode = "deterministic"
)

// IsValid returns true if the match mode is recognised.
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchModeRetrieval, MatchModeRAG, MatchModeDeterministic:
		return true
	default:
		return false
	}
}

// RequiresLLM returns true if this mode needs an LLM provider.
func (m MatchMode) RequiresLLM() bool {
	return m == MatchModeRAG
}

// String returns the string representation.
func (m MatchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m MatchMode) Description() string {
	switch m {
	case MatchModeRetrieval:
		return "Retrieval (vector similarity ranking)"
	case MatchModeRAG:
		return "RAG (retrieval + LLM confirmation)"
	case MatchModeDeterministic:
		return "Deterministic (rule-based scoring, offline)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// MatchSettings holds matching behaviour configuration.
type MatchSettings struct {
	// Mode is the matching strategy.
	Mode MatchMode

	// SimilarityThreshold is the minimum cosine similarity for a chunk
	// to count as retrieved.
	SimilarityThreshold float64

	// MaxChunks caps how many chunks one retrieval returns.
	MaxChunks int

	// RelevanceThreshold gates which matches the caller should surface.
	RelevanceThreshold float64
}

// EmbeddingSettings holds embedding provider configuration.
// An unconfigured provider means the deterministic fallback embedder is used.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if a remote embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Match holds matching behaviour settings.
	Match MatchSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings
}

// Default matching thresholds.
const (
	// DefaultSimilarityThreshold is the retrieval similarity floor.
	DefaultSimilarityThreshold = 0.1

	// DefaultMaxChunks caps retrieval result size.
	DefaultMaxChunks = 100

	// DefaultRelevanceThreshold gates highlight-worthy matches.
	DefaultRelevanceThreshold = 0.6
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; matching then runs on the
// fallback embedder and retrieval-only ranking.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Match: MatchSettings{
			Mode:                MatchModeRetrieval,
			SimilarityThreshold: DefaultSimilarityThreshold,
			MaxChunks:           DefaultMaxChunks,
			RelevanceThreshold:  DefaultRelevanceThreshold,
		},
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
	}
}

// AllMatchModes returns all available match modes.
func AllMatchModes() []MatchMode {
	return []MatchMode{
		MatchModeRetrieval,
		MatchModeRAG,
		MatchModeDeterministic,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
