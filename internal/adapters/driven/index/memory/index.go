// Package memory provides an in-memory chunk index.
//
// It mirrors the SQLite index's semantics (deterministic IDs, overwrite
// on re-add, ascending-distance queries) without persistence. Intended
// for tests and for running the pipeline without a data directory.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.ChunkIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.ChunkIndex using
// brute-force cosine distance.
type Index struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// New creates an empty in-memory chunk index.
func New() *Index {
	return &Index{chunks: make(map[string]domain.Chunk)}
}

// Upsert stores a chunk, overwriting any chunk with the same ID.
func (x *Index) Upsert(_ context.Context, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("upsert chunk: %w: empty id", domain.ErrInvalidInput)
	}
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("upsert chunk %s: %w: empty embedding", chunk.ID, domain.ErrInvalidInput)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.chunks[chunk.ID] = chunk
	return nil
}

// Query returns up to k chunks ranked by ascending cosine distance.
// The filter is applied over the full candidate set before ranking, so a
// filtered query never under-returns relative to min(k, matching count).
func (x *Index) Query(
	_ context.Context, embedding []float32, k int, filter *driven.QueryFilter,
) ([]driven.ChunkHit, error) {
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var hits []driven.ChunkHit
	for _, chunk := range x.chunks {
		if filter != nil && filter.SourceID != "" && chunk.SourceID != filter.SourceID {
			continue
		}
		hits = append(hits, driven.ChunkHit{
			Chunk:    chunk,
			Distance: cosineDistance(embedding, chunk.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		// Map iteration is unordered; tie-break on ID for determinism.
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of chunks currently indexed.
func (x *Index) Count(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks), nil
}

// GetBySource returns all chunks for one source, ordered by page.
func (x *Index) GetBySource(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var chunks []domain.Chunk
	for _, chunk := range x.chunks {
		if chunk.SourceID == sourceID {
			chunks = append(chunks, chunk)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Page < chunks[j].Page })
	return chunks, nil
}

// Sources returns the distinct source IDs with their chunk counts.
func (x *Index) Sources(_ context.Context) (map[string]int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	sources := make(map[string]int)
	for _, chunk := range x.chunks {
		sources[chunk.SourceID]++
	}
	return sources, nil
}

// DeleteAll removes every chunk and reports how many were removed.
func (x *Index) DeleteAll(_ context.Context) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	removed := len(x.chunks)
	x.chunks = make(map[string]domain.Chunk)
	return removed, nil
}

// Recreate resets the index to empty. Equivalent to DeleteAll for the
// in-memory implementation; there is no persisted state to corrupt.
func (x *Index) Recreate(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.chunks = make(map[string]domain.Chunk)
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Mismatched or
// zero-magnitude vectors rank last.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(na2)*math.Sqrt(nb2))
}
