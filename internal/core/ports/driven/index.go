package driven

import (
	"context"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
)

// ChunkIndex stores chunks with their embeddings and answers
// nearest-neighbour queries. Implementations must be safe for concurrent
// ingestion and retrieval across sessions.
type ChunkIndex interface {
	// Upsert stores a chunk, overwriting any chunk with the same ID.
	// The chunk's Embedding must already be computed.
	Upsert(ctx context.Context, chunk domain.Chunk) error

	// Query returns up to k chunks nearest to the embedding, ordered by
	// ascending distance. A nil filter searches the whole index; when the
	// index is smaller than k, all chunks are returned.
	Query(ctx context.Context, embedding []float32, k int, filter *QueryFilter) ([]ChunkHit, error)

	// Count returns the number of chunks currently indexed.
	Count(ctx context.Context) (int, error)

	// GetBySource returns all chunks for one source, ordered by page.
	GetBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error)

	// Sources returns the distinct source IDs with their chunk counts.
	Sources(ctx context.Context) (map[string]int, error)

	// DeleteAll removes every chunk and reports how many were removed.
	DeleteAll(ctx context.Context) (int, error)

	// Recreate drops the index storage and recreates it empty.
	// This is the recovery path for corrupted persisted state.
	Recreate(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// QueryFilter restricts a query to a subset of the index.
type QueryFilter struct {
	// SourceID limits results to chunks from one originating document.
	SourceID string
}

// ChunkHit is a single nearest-neighbour result.
type ChunkHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Distance is the cosine distance to the query (lower is closer).
	Distance float64
}
