package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
)

func sampleEvidence() []domain.EvidenceItem {
	return []domain.EvidenceItem{
		{SourceID: "doc1", Page: 1, Snippet: "AI improves diagnostics.", DocumentText: "AI improves diagnostics."},
		{SourceID: "doc1", Page: 2, Snippet: "AI reduces cost.", DocumentText: "AI reduces cost."},
	}
}

func TestSynthesizeSuccess(t *testing.T) {
	llm := &mockLLM{response: "Diagnostics improved markedly [doc1:1] while costs fell [doc1:2]."}
	s := NewSynthesizer(llm)

	section := s.Synthesize(context.Background(), "Executive Summary", sampleEvidence())

	assert.False(t, section.Failed)
	assert.Equal(t, "Executive Summary", section.Title)
	assert.Contains(t, section.Text, "[doc1:1]")
	assert.Equal(t, sampleEvidence(), section.Citations,
		"citations carry the full evidence shown to the model")
}

func TestSynthesizeNoEvidence(t *testing.T) {
	llm := &mockLLM{response: "should never be used"}
	s := NewSynthesizer(llm)

	section := s.Synthesize(context.Background(), "Future Outlook", nil)

	assert.False(t, section.Failed, "missing evidence is an expected outcome, not a failure")
	assert.Equal(t, noEvidenceText, section.Text)
	assert.Empty(t, section.Citations)
	assert.Empty(t, llm.recordedPrompts(), "the model is never asked to write without sources")
}

func TestSynthesizeModelFailure(t *testing.T) {
	llm := &mockLLM{err: errors.New("model offline")}
	s := NewSynthesizer(llm)

	section := s.Synthesize(context.Background(), "Key Findings", sampleEvidence())

	assert.True(t, section.Failed)
	assert.Contains(t, section.Text, "[generation failed]")
	assert.Contains(t, section.Text, "model offline")
	assert.Equal(t, sampleEvidence(), section.Citations, "evidence is kept so the failure is auditable")
}

func TestSynthesizeNilModel(t *testing.T) {
	s := NewSynthesizer(nil)

	section := s.Synthesize(context.Background(), "Key Findings", sampleEvidence())

	assert.True(t, section.Failed)
	assert.Contains(t, section.Text, "[generation failed]")
}

func TestSynthesizeEmptyModelOutput(t *testing.T) {
	llm := &mockLLM{response: "   \n "}
	s := NewSynthesizer(llm)

	section := s.Synthesize(context.Background(), "Key Findings", sampleEvidence())
	assert.True(t, section.Failed, "whitespace-only model output counts as a failed call")
}

func TestSynthesizeTimeout(t *testing.T) {
	llm := &mockLLM{block: true}
	s := NewSynthesizer(llm, WithTimeout(20*time.Millisecond), WithModelRate(1000))

	done := make(chan domain.GeneratedSection, 1)
	go func() {
		done <- s.Synthesize(context.Background(), "Key Findings", sampleEvidence())
	}()

	select {
	case section := <-done:
		assert.True(t, section.Failed)
		assert.Contains(t, section.Text, "[generation failed]")
	case <-time.After(5 * time.Second):
		t.Fatal("synthesis did not honour the per-call timeout")
	}
}

func TestBuildSectionPrompt(t *testing.T) {
	prompt, err := buildSectionPrompt("Executive Summary", sampleEvidence())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Executive Summary")
	assert.Contains(t, prompt, "[source_id:page]", "the exact citation form is mandated")
	assert.Contains(t, prompt, `"source_id": "doc1"`)
	assert.Contains(t, prompt, `"page": 2`)
	assert.Contains(t, prompt, "AI improves diagnostics.")
	assert.Contains(t, prompt, `"id": 1`)
	assert.Contains(t, prompt, `"id": 2`, "evidence items are enumerated with locally unique ids")
}

func TestBuildSectionPromptFallsBackToSnippet(t *testing.T) {
	evidence := []domain.EvidenceItem{{SourceID: "doc1", Page: 1, Snippet: "short excerpt"}}
	prompt, err := buildSectionPrompt("Key Findings", evidence)
	require.NoError(t, err)
	assert.Contains(t, prompt, "short excerpt")
}
