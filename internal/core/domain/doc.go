// Package domain defines the core business entities for skillroute.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One logical methodology document after separator splitting
//   - Query: A routing request with free text and exact filters
//   - ScoredDocument: A routed document with its relevance score
//   - Warning: A recoverable metadata problem found while loading
//   - ServiceState / Status: The corpus service lifecycle
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
