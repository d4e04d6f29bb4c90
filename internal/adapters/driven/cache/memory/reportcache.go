// Package memory provides the in-memory report cache.
//
// Reports are held only for the lifetime of the process. This is an
// explicit, documented design choice: the report ID is a short-lived
// handle for preview and export, not durable state.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
)

// Ensure ReportCache implements the interface.
var _ driven.ReportCache = (*ReportCache)(nil)

// ReportCache is an in-memory implementation of driven.ReportCache.
type ReportCache struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

// NewReportCache creates an empty report cache.
func NewReportCache() *ReportCache {
	return &ReportCache{reports: make(map[string]domain.Report)}
}

// Store assigns the report a fresh UUID, inserts it, and returns the ID.
// The caller passes a fully assembled report; the insert is atomic under
// the lock, so readers never observe a partial value.
func (c *ReportCache) Store(_ context.Context, report domain.Report) (string, error) {
	id := uuid.New().String()
	report.ID = id

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[id] = report
	return id, nil
}

// Get retrieves a report by ID.
func (c *ReportCache) Get(_ context.Context, reportID string) (*domain.Report, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report, ok := c.reports[reportID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &report, nil
}

// Clear discards all cached reports.
func (c *ReportCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = make(map[string]domain.Report)
	return nil
}

// Len returns the number of cached reports.
func (c *ReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reports)
}
