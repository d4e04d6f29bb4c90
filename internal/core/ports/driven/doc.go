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
//   - ChunkIndex: Chunk + embedding persistence and nearest-neighbour query
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Language model text generation for section synthesis
//   - ReportCache: Ephemeral storage for assembled reports
//   - ConfigStore: Application configuration
//
// Note the split between EmbeddingService and ChunkIndex: the service
// generates vectors, the index stores and searches them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
