package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Callers can distinguish "never existed / expired" from a
	// generation failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyIndex indicates no documents have been ingested yet.
	// Report generation fails fast with this rather than fabricating
	// evidence.
	ErrEmptyIndex = errors.New("no documents in index")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the language model service is not
	// configured. Section synthesis is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexUnavailable indicates the chunk index storage failed.
	// The index can be recovered with an explicit recreate.
	ErrIndexUnavailable = errors.New("chunk index unavailable")
)
