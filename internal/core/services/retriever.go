package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
	"github.com/custodia-labs/reportsmith/internal/logger"
)

// minSectionTopK is the floor for the per-section retrieval budget.
const minSectionTopK = 3

// snippetLength bounds the short excerpt kept on each evidence item.
const snippetLength = 200

// sectionKeywords augments the caller's query for well-known section
// titles. Unknown titles fall back to the query plus the lowercased
// title itself.
var sectionKeywords = map[string]string{
	"Executive Summary": "summary overview",
	"Key Findings":      "findings results analysis",
	"Recommendations":   "recommendations suggestions",
	"Market Analysis":   "market analysis",
	"Challenges":        "challenges problems",
	"Future Outlook":    "future outlook predictions",
	"Introduction":      "introduction background",
}

// EvidenceSet is the outcome of evidence retrieval for one report.
type EvidenceSet struct {
	// BySection holds each section's evidence, ordered by ascending
	// retrieval distance.
	BySection map[string][]domain.EvidenceItem

	// Unique is the report-wide deduplicated evidence list, kept for
	// audit and export.
	Unique []domain.EvidenceItem
}

// Retriever issues one index query per report section plus a general
// fallback query, and deduplicates the retrieved evidence across the
// whole report.
type Retriever struct {
	index    driven.ChunkIndex
	embedder driven.EmbeddingService
}

// NewRetriever creates a new evidence retriever.
func NewRetriever(index driven.ChunkIndex, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{index: index, embedder: embedder}
}

// Retrieve gathers evidence for each section.
//
// Per-section budget is max(3, topK/len(sections)). Each section first
// queries with an augmented query; a section with zero hits retries once
// with the plain query; a general query with the full topK budget serves
// as the fallback pool for sections still empty. Evidence is
// deduplicated report-wide on (source, page): the first section to claim
// a chunk keeps it. A section whose every candidate was already claimed
// reuses the general pool rather than going empty; that is the one
// sanctioned exception to the dedup invariant.
//
// Source filtering is best effort by default: when the filter eliminates
// every match for a query, the query is retried unfiltered. Strict mode
// keeps the filter and lets a section end up with no evidence instead.
func (r *Retriever) Retrieve(
	ctx context.Context,
	sections []string,
	query string,
	topK int,
	sourceFilter string,
	strict bool,
) (*EvidenceSet, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("retrieve: %w", domain.ErrEmbeddingUnavailable)
	}

	count, err := r.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w: %v", domain.ErrIndexUnavailable, err)
	}
	if count == 0 {
		return nil, domain.ErrEmptyIndex
	}

	sectionTopK := topK / len(sections)
	if sectionTopK < minSectionTopK {
		sectionTopK = minSectionTopK
	}

	var filter *driven.QueryFilter
	if sourceFilter != "" {
		filter = &driven.QueryFilter{SourceID: sourceFilter}
		logger.Debug("Source filter: %s (strict=%t)", sourceFilter, strict)
	}

	logger.Section("Evidence Retrieval")
	logger.Debug("Sections: %d, topK: %d, per-section budget: %d", len(sections), topK, sectionTopK)

	sectionHits := make(map[string][]driven.ChunkHit, len(sections))
	for _, section := range sections {
		sectionHits[section] = r.sectionSearch(ctx, section, query, sectionTopK, filter, strict)
	}

	general := r.fallbackSearch(ctx, query, query, topK, filter, strict)
	logger.Debug("General fallback pool: %d hits", len(general))

	return assembleEvidence(sections, sectionHits, general), nil
}

// sectionSearch runs the augmented query for one section, retrying per
// the fallback ladder: plain query on zero hits, then unfiltered plain
// query unless strict filtering was requested.
func (r *Retriever) sectionSearch(
	ctx context.Context,
	section, query string,
	k int,
	filter *driven.QueryFilter,
	strict bool,
) []driven.ChunkHit {
	augmented := augmentQuery(query, section)
	logger.Debug("Section %q query: %q", section, augmented)

	hits, err := r.search(ctx, augmented, k, filter)
	if err != nil {
		// Storage fault: retry once with the plain, unfiltered query,
		// then degrade to no hits for this section.
		logger.Warn("Section %q query failed: %v (retrying simplified)", section, err)
		hits, err = r.search(ctx, query, k, nil)
		if err != nil {
			logger.Warn("Section %q retry failed: %v (proceeding without hits)", section, err)
			return nil
		}
		return hits
	}

	if len(hits) == 0 {
		logger.Debug("Section %q returned no hits, retrying with plain query", section)
		hits = r.fallbackSearch(ctx, query, section, k, filter, strict)
	}
	return hits
}

// fallbackSearch runs the plain query, broadening past the source filter
// when it eliminates everything and strict mode is off.
func (r *Retriever) fallbackSearch(
	ctx context.Context,
	query, label string,
	k int,
	filter *driven.QueryFilter,
	strict bool,
) []driven.ChunkHit {
	hits, err := r.search(ctx, query, k, filter)
	if err != nil {
		logger.Warn("Fallback query for %q failed: %v", label, err)
		return nil
	}
	if len(hits) == 0 && filter != nil && !strict {
		logger.Debug("Filter eliminated all matches for %q, broadening scope", label)
		hits, err = r.search(ctx, query, k, nil)
		if err != nil {
			logger.Warn("Broadened query for %q failed: %v", label, err)
			return nil
		}
	}
	return hits
}

// search embeds the query text and runs one index query.
func (r *Retriever) search(
	ctx context.Context, query string, k int, filter *driven.QueryFilter,
) ([]driven.ChunkHit, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.index.Query(ctx, embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return hits, nil
}

// assembleEvidence turns raw hits into per-section evidence lists with
// report-wide dedup. Hit order within a section is already ascending by
// distance; first claim wins across sections in request order.
func assembleEvidence(
	sections []string,
	sectionHits map[string][]driven.ChunkHit,
	general []driven.ChunkHit,
) *EvidenceSet {
	set := &EvidenceSet{BySection: make(map[string][]domain.EvidenceItem, len(sections))}
	claimed := make(map[string]bool)

	claim := func(hit driven.ChunkHit, inSection map[string]bool) (domain.EvidenceItem, bool) {
		item := evidenceFromChunk(hit.Chunk)
		key := item.Key()
		if claimed[key] || inSection[key] {
			return domain.EvidenceItem{}, false
		}
		claimed[key] = true
		inSection[key] = true
		set.Unique = append(set.Unique, item)
		return item, true
	}

	for _, section := range sections {
		inSection := make(map[string]bool)
		var items []domain.EvidenceItem

		for _, hit := range sectionHits[section] {
			if item, ok := claim(hit, inSection); ok {
				items = append(items, item)
			}
		}

		// Fall back to the general pool for sections left empty.
		if len(items) == 0 {
			for _, hit := range general {
				if item, ok := claim(hit, inSection); ok {
					items = append(items, item)
				}
			}
		}

		// Pool exhausted: reuse general evidence already claimed
		// elsewhere rather than synthesising from nothing.
		if len(items) == 0 {
			for _, hit := range general {
				item := evidenceFromChunk(hit.Chunk)
				if inSection[item.Key()] {
					continue
				}
				inSection[item.Key()] = true
				items = append(items, item)
			}
			if len(items) > 0 {
				logger.Debug("Section %q reuses %d general evidence items (pool exhausted)", section, len(items))
			}
		}

		logger.Debug("Section %q evidence: %d items", section, len(items))
		set.BySection[section] = items
	}

	logger.Info("Total unique evidence items: %d", len(set.Unique))
	return set
}

// augmentQuery appends section-relevant keywords to the caller's query.
func augmentQuery(query, section string) string {
	if keywords, ok := sectionKeywords[section]; ok {
		return query + " " + keywords
	}
	return query + " " + strings.ToLower(section)
}

// evidenceFromChunk builds the transient evidence view over a chunk.
func evidenceFromChunk(chunk domain.Chunk) domain.EvidenceItem {
	return domain.EvidenceItem{
		SourceID:     chunk.SourceID,
		Page:         chunk.Page,
		Snippet:      snippet(chunk.Text, snippetLength),
		DocumentText: chunk.Text,
	}
}

// snippet truncates text to at most n runes on a word boundary.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
