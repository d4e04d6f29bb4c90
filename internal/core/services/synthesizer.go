package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
	"github.com/custodia-labs/reportsmith/internal/logger"
)

// DefaultSynthesisTimeout bounds each model call so a non-responding
// model cannot hang a request indefinitely.
const DefaultSynthesisTimeout = 60 * time.Second

// DefaultModelRate throttles model calls across concurrent sections.
const DefaultModelRate = 2.0 // calls per second

// noEvidenceText is the visible placeholder for a section with no
// retrievable evidence. The model is never asked to write without
// sources.
const noEvidenceText = "No supporting evidence was found in the ingested documents for this section."

// Synthesizer turns a section title plus evidence into generated prose
// with inline citations.
type Synthesizer struct {
	llm     driven.LLMService
	limiter *rate.Limiter
	timeout time.Duration
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithTimeout sets the per-call model timeout.
func WithTimeout(d time.Duration) SynthesizerOption {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithModelRate sets the model call rate limit in calls per second.
func WithModelRate(callsPerSecond float64) SynthesizerOption {
	return func(s *Synthesizer) {
		if callsPerSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(callsPerSecond), 1)
		}
	}
}

// NewSynthesizer creates a new section synthesizer.
func NewSynthesizer(llm driven.LLMService, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(DefaultModelRate), 1),
		timeout: DefaultSynthesisTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize generates one report section. It never returns an error:
// a failed model call produces a clearly labelled placeholder section so
// each section fails independently of the rest of the report.
//
// Citations carry the full evidence list shown to the model, not a
// parsed subset of what the model actually cited. That keeps every
// citation traceable to an ingested chunk even when the model cites
// selectively.
func (s *Synthesizer) Synthesize(
	ctx context.Context, title string, evidence []domain.EvidenceItem,
) domain.GeneratedSection {
	if len(evidence) == 0 {
		return domain.GeneratedSection{Title: title, Text: noEvidenceText}
	}

	if s.llm == nil {
		logger.Warn("Section %q: %v", title, domain.ErrLLMUnavailable)
		return failedSection(title, evidence, domain.ErrLLMUnavailable)
	}

	prompt, err := buildSectionPrompt(title, evidence)
	if err != nil {
		logger.Warn("Section %q: building prompt failed: %v", title, err)
		return failedSection(title, evidence, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return failedSection(title, evidence, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Debug("Section %q: invoking model with %d evidence items", title, len(evidence))
	text, err := s.llm.Generate(callCtx, prompt, driven.GenerateOptions{
		MaxTokens:   1200,
		Temperature: 0.2,
	})
	if err != nil {
		logger.Warn("Section %q: generation failed: %v", title, err)
		return failedSection(title, evidence, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Section %q: model returned empty text", title)
		return failedSection(title, evidence, fmt.Errorf("model returned empty text"))
	}

	return domain.GeneratedSection{Title: title, Text: text, Citations: evidence}
}

// failedSection builds the labelled placeholder for an independently
// failed section. The evidence is kept so the failure is still auditable.
func failedSection(title string, evidence []domain.EvidenceItem, err error) domain.GeneratedSection {
	return domain.GeneratedSection{
		Title:     title,
		Text:      fmt.Sprintf("[generation failed] Section %q could not be generated: %v", title, err),
		Citations: evidence,
		Failed:    true,
	}
}

// promptEvidence is the evidence enumeration shown to the model.
type promptEvidence struct {
	ID       int    `json:"id"`
	SourceID string `json:"source_id"`
	Page     int    `json:"page"`
	Content  string `json:"content"`
}

// buildSectionPrompt renders the citation-constrained prompt for one
// section. Evidence items are enumerated with locally unique ids and the
// exact [source_id:page] citation form is mandated.
func buildSectionPrompt(title string, evidence []domain.EvidenceItem) (string, error) {
	enumerated := make([]promptEvidence, 0, len(evidence))
	for _, item := range evidence {
		content := item.DocumentText
		if strings.TrimSpace(content) == "" {
			content = item.Snippet
		}
		enumerated = append(enumerated, promptEvidence{
			ID:       len(enumerated) + 1,
			SourceID: item.SourceID,
			Page:     item.Page,
			Content:  content,
		})
	}

	evidenceJSON, err := json.MarshalIndent(enumerated, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal evidence: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write the section '%s' for a professional report based only on the following evidence from ingested documents.\n\n", title)
	b.WriteString("CITATION REQUIREMENTS:\n")
	b.WriteString("1. Every fact, claim, or statistic must cite its source using the exact format [source_id:page]\n")
	b.WriteString("2. Use the exact source_id and page from the evidence provided\n")
	b.WriteString("3. Each citation must correspond to content from that specific evidence item\n")
	b.WriteString("4. Do not add external knowledge, assumptions, or information absent from the evidence\n")
	b.WriteString("5. Use different citations throughout the section - avoid repeating the same citation when alternatives exist\n\n")
	b.WriteString("WRITING REQUIREMENTS:\n")
	b.WriteString("- Professional, analytical tone\n")
	b.WriteString("- Clear paragraphs; bullet points where they help\n")
	b.WriteString("- Include specific data points and metrics when available\n")
	b.WriteString("- Write only this section, no headings for other sections\n\n")
	b.WriteString("Evidence:\n")
	b.Write(evidenceJSON)

	return b.String(), nil
}
