// Package domain defines the core business entities for Shopmatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawProduct: A product as scraped from a shopping page
//   - Chunk: A retrievable sub-document of one product
//   - ProductMetadata: The persisted summary of an indexed product
//   - QueryAnalysis: The typed decomposition of a free-text query
//   - Match: A product judged relevant to a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
