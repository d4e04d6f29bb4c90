package driving

import "context"

// IngestService accepts extracted plain text and indexes it under a
// source identifier. Callers (file-type extractors, the CLI) are
// responsible for producing text; the core knows nothing about
// PDF/PPTX/OCR formats.
type IngestService interface {
	// Ingest chunks the texts, embeds each chunk, and stores them under
	// sourceID. Pages are numbered continuously across the batch.
	// A single chunk whose embedding fails is logged and skipped; the
	// rest of the batch still lands. Returns the stored chunk IDs.
	Ingest(ctx context.Context, texts []string, sourceID string) ([]string, error)
}
