package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driving"
	"github.com/custodia-labs/reportsmith/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// DefaultTopK is the default overall retrieval budget.
const DefaultTopK = 5

// maxConcurrentSections caps how many section model calls run at once.
const maxConcurrentSections = 5

// ReportService is the driving surface of the report pipeline. It wires
// retrieval, synthesis, and the report cache; the index and cache
// passed in are the process-wide shared instances.
type ReportService struct {
	index       driven.ChunkIndex
	retriever   *Retriever
	synthesizer *Synthesizer
	cache       driven.ReportCache
}

// NewReportService creates a new report service.
func NewReportService(
	index driven.ChunkIndex,
	retriever *Retriever,
	synthesizer *Synthesizer,
	cache driven.ReportCache,
) *ReportService {
	return &ReportService{
		index:       index,
		retriever:   retriever,
		synthesizer: synthesizer,
		cache:       cache,
	}
}

// Generate builds a citation-backed report for the requested sections
// and stores it in the cache. The returned ID is the only handle for
// later preview.
//
// Section synthesis runs concurrently, bounded by min(len(sections), 5)
// workers; each section fails independently, so a partially failed
// report is still stored and previewable with its failed sections
// visibly marked.
func (s *ReportService) Generate(
	ctx context.Context, sections []string, query string, opts driving.GenerateOptions,
) (string, error) {
	if len(sections) == 0 {
		return "", fmt.Errorf("generate report: %w: no sections requested", domain.ErrInvalidInput)
	}
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			return "", fmt.Errorf("generate report: %w: blank section title", domain.ErrInvalidInput)
		}
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Section("Report Generation")
	logger.Debug("Sections: %v, query: %q, topK: %d", sections, query, topK)

	evidence, err := s.retriever.Retrieve(ctx, sections, query, topK, opts.SourceFilter, opts.StrictFilter)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}

	generated := s.synthesizeAll(ctx, sections, evidence)

	// Assemble the full report before it touches the cache so no reader
	// can observe a partial value.
	report := domain.Report{Sections: generated}
	reportID, err := s.cache.Store(ctx, report)
	if err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	logger.Info("Report %s generated with %d sections", reportID, len(generated))
	return reportID, nil
}

// synthesizeAll generates every section concurrently under the worker
// cap, preserving the requested order in the result.
func (s *ReportService) synthesizeAll(
	ctx context.Context, sections []string, evidence *EvidenceSet,
) []domain.GeneratedSection {
	results := make([]domain.GeneratedSection, len(sections))

	workers := len(sections)
	if workers > maxConcurrentSections {
		workers = maxConcurrentSections
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, section := range sections {
		wg.Add(1)
		go func(i int, section string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.synthesizer.Synthesize(ctx, section, evidence.BySection[section])
		}(i, section)
	}
	wg.Wait()

	return results
}

// Preview returns a previously generated report by ID.
func (s *ReportService) Preview(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.cache.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("preview report %s: %w", reportID, err)
	}
	return report, nil
}

// Diagnose reports the chunk count and health of the embedding index.
// A failing count marks the index unhealthy instead of returning an
// error; the caller decides whether to recreate.
func (s *ReportService) Diagnose(ctx context.Context) (domain.IndexStatus, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		logger.Warn("Index diagnostics failed: %v", err)
		return domain.IndexStatus{Healthy: false}, nil
	}
	return domain.IndexStatus{DocumentCount: count, Healthy: true}, nil
}

// Reset removes every indexed chunk and clears the report cache. When
// deletion itself fails, the index storage is assumed corrupted and is
// dropped and recreated empty instead; the removed count is then
// unknown and reported as zero.
func (s *ReportService) Reset(ctx context.Context) (int, error) {
	removed, err := s.index.DeleteAll(ctx)
	if err != nil {
		logger.Warn("Deleting chunks failed: %v (recreating index storage)", err)
		if err := s.index.Recreate(ctx); err != nil {
			return 0, fmt.Errorf("recreate index: %w", err)
		}
		removed = 0
	}
	if err := s.cache.Clear(ctx); err != nil {
		return removed, fmt.Errorf("clear report cache: %w", err)
	}
	logger.Info("Index reset: %d chunks removed", removed)
	return removed, nil
}

// Sources lists the distinct source IDs with their chunk counts.
func (s *ReportService) Sources(ctx context.Context) (map[string]int, error) {
	sources, err := s.index.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}
