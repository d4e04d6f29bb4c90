package driving

import (
	"context"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
)

// GenerateOptions configures a report generation request.
type GenerateOptions struct {
	// TopK is the overall retrieval budget (default 5).
	TopK int

	// SourceFilter, when set, restricts retrieval to one source.
	SourceFilter string

	// StrictFilter keeps the source filter even when it eliminates all
	// matches for a section. The default (false) broadens scope best
	// effort: a filtered-out section falls back to an unfiltered query.
	StrictFilter bool
}

// ReportService generates, previews, and manages citation-backed reports.
type ReportService interface {
	// Generate retrieves evidence for each requested section, synthesises
	// section prose, caches the assembled report, and returns its ID.
	// Fails with domain.ErrEmptyIndex when nothing has been ingested and
	// domain.ErrInvalidInput when sections is empty.
	Generate(ctx context.Context, sections []string, query string, opts GenerateOptions) (string, error)

	// Preview returns a previously generated report by ID.
	// Returns domain.ErrNotFound for unknown or expired IDs.
	Preview(ctx context.Context, reportID string) (*domain.Report, error)

	// Diagnose reports the chunk count and health of the embedding index.
	Diagnose(ctx context.Context) (domain.IndexStatus, error)

	// Reset removes every indexed chunk and clears the report cache.
	// Returns the number of chunks removed. A corrupted index that
	// cannot delete its rows is dropped and recreated empty, in which
	// case the removed count is zero.
	Reset(ctx context.Context) (int, error)

	// Sources lists the distinct source IDs with their chunk counts.
	Sources(ctx context.Context) (map[string]int, error)
}
