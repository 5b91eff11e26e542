package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCaptureInProgress indicates a capture/index pass is already
	// running. Concurrent passes are rejected, not queued.
	ErrCaptureInProgress = errors.New("capture in progress")

	// ErrStoreUnavailable indicates the product store could not be
	// opened. Fatal for the calling index or retrieval operation.
	ErrStoreUnavailable = errors.New("product store unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// RAG confirmation degrades to retrieval-only ranking.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the remote embedding service is
	// not configured or unreachable. The fallback embedder takes over.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
