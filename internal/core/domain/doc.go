// Package domain defines the core business entities for Reportsmith.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded slice of a source document, the atomic unit of
//     indexing and citation
//   - EvidenceItem: A chunk retrieved as relevant to a report section,
//     annotated with its source attribution
//   - GeneratedSection: One synthesised report section with its citations
//   - Report: The assembled set of generated sections
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
