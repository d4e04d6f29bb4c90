package driven

import (
	"context"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
)

// ReportCache holds assembled reports for later preview and export.
//
// The cache is purely in-memory and makes no persistence guarantee: a
// process restart discards every stored report. This is a deliberate
// design choice, the report ID is a short-lived handle, not durable state.
type ReportCache interface {
	// Store assigns the report a fresh UUID, inserts it, and returns the ID.
	// The report must be fully assembled before it is stored; no reader
	// ever observes a partially written report.
	Store(ctx context.Context, report domain.Report) (string, error)

	// Get retrieves a report by ID. Returns domain.ErrNotFound for
	// unknown IDs.
	Get(ctx context.Context, reportID string) (*domain.Report, error)

	// Clear discards all cached reports.
	Clear(ctx context.Context) error
}
