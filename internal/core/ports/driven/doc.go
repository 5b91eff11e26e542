// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ProductStore: Chunk and product metadata persistence
//   - ConfigStore: Application configuration
//   - EmbeddingService: Generates vector embeddings. The fallback
//     embedder always satisfies this, so it is never nil in practice.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model completion. Without it, RAG confirmation
//     degrades to retrieval-only ranking.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
