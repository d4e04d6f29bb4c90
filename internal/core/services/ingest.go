package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/reportsmith/internal/chunker"
	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driving"
	"github.com/custodia-labs/reportsmith/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks extracted text, embeds each chunk, and stores the
// result in the chunk index.
type IngestService struct {
	index    driven.ChunkIndex
	embedder driven.EmbeddingService
	splitter *chunker.Splitter
}

// NewIngestService creates a new ingest service. The splitter may be nil,
// in which case a default sentence splitter is used.
func NewIngestService(
	index driven.ChunkIndex,
	embedder driven.EmbeddingService,
	splitter *chunker.Splitter,
) *IngestService {
	if splitter == nil {
		splitter = chunker.New()
	}
	return &IngestService{
		index:    index,
		embedder: embedder,
		splitter: splitter,
	}
}

// Ingest indexes the given texts under sourceID and returns the stored
// chunk IDs. Pages are numbered continuously across the whole batch, so
// every chunk of one ingestion call gets a distinct (source, page) pair
// and re-ingesting the same source overwrites in place.
//
// Failure handling is per chunk: a chunk whose embedding or upsert fails
// is logged and skipped, the rest of the batch still lands.
func (s *IngestService) Ingest(ctx context.Context, texts []string, sourceID string) ([]string, error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, fmt.Errorf("ingest: %w: empty source id", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("ingest: %w", domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Ingestion")
	logger.Debug("Source: %s, texts: %d", sourceID, len(texts))

	var chunkIDs []string
	page := 0

	for i, text := range texts {
		pieces := s.splitter.Split(text)
		if len(pieces) == 0 {
			logger.Debug("Text %d is empty after chunking, skipping", i)
			continue
		}
		logger.Debug("Text %d split into %d chunks", i, len(pieces))

		embeddings := s.embedPieces(ctx, pieces, i)

		for j, piece := range pieces {
			page++
			if embeddings[j] == nil {
				// Embedding failed for this chunk; already logged.
				continue
			}

			chunk := domain.NewChunk(sourceID, page, piece)
			chunk.Embedding = embeddings[j]

			if err := s.index.Upsert(ctx, chunk); err != nil {
				logger.Warn("Failed to store chunk %s: %v", chunk.ID, err)
				continue
			}
			chunkIDs = append(chunkIDs, chunk.ID)
		}
	}

	logger.Info("Ingested %d chunks for source %s", len(chunkIDs), sourceID)
	return chunkIDs, nil
}

// embedPieces embeds a document's chunks, preferring one batch call and
// degrading to per-chunk calls when the batch fails. A nil entry marks a
// chunk whose embedding could not be computed.
func (s *IngestService) embedPieces(ctx context.Context, pieces []string, textIdx int) [][]float32 {
	embeddings, err := s.embedder.EmbedBatch(ctx, pieces)
	if err == nil && len(embeddings) == len(pieces) {
		return embeddings
	}
	if err != nil {
		logger.Warn("Batch embedding failed for text %d: %v (retrying per chunk)", textIdx, err)
	}

	embeddings = make([][]float32, len(pieces))
	for i, piece := range pieces {
		embedding, err := s.embedder.Embed(ctx, piece)
		if err != nil {
			logger.Warn("Embedding failed for chunk %d of text %d: %v (skipping)", i, textIdx, err)
			continue
		}
		embeddings[i] = embedding
	}
	return embeddings
}
