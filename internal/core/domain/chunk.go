package domain

import "fmt"

// Chunk represents an indexed slice of a source document.
// It is the atomic unit of indexing and citation: every citation in a
// generated report resolves to exactly one chunk.
type Chunk struct {
	// ID is the deterministic identifier "{source_id}_p{page}".
	ID string

	// SourceID identifies the originating document.
	SourceID string

	// Page is the 1-based ordinal position within the source.
	Page int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// ChunkID builds the deterministic chunk identifier for a source page.
// Re-ingesting the same (source, page) pair produces the same ID, so the
// index overwrites rather than duplicates.
func ChunkID(sourceID string, page int) string {
	return fmt.Sprintf("%s_p%d", sourceID, page)
}

// NewChunk creates a chunk with its deterministic ID.
func NewChunk(sourceID string, page int, text string) Chunk {
	return Chunk{
		ID:       ChunkID(sourceID, page),
		SourceID: sourceID,
		Page:     page,
		Text:     text,
	}
}
