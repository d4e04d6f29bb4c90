// Package chunker splits extracted document text into bounded-size chunks
// suitable for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMaxTokens is the default approximate token budget per chunk.
// Tokens are approximated as whitespace-separated words, not a model
// tokenizer; the budget bounds chunk size, it does not meter API cost.
const DefaultMaxTokens = 300

// sentenceRe matches sentence-like spans ending in terminal punctuation.
var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Splitter accumulates sentences into chunks up to an approximate token
// budget. Sentence boundaries are preferred; paragraph and whitespace
// boundaries are the fallback for text without terminal punctuation.
type Splitter struct {
	maxTokens int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxTokens sets the approximate token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{maxTokens: DefaultMaxTokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split breaks text into ordered chunks. Concatenating the output covers
// every non-empty sentence of the input; whitespace-only chunks are
// discarded. A single sentence longer than the budget becomes its own
// chunk rather than being truncated.
func (s *Splitter) Split(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentTokens := 0

	for _, sentence := range sentences {
		tokens := len(strings.Fields(sentence))
		if tokens == 0 {
			continue
		}
		if currentTokens > 0 && currentTokens+tokens > s.maxTokens {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			currentTokens = 0
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	if currentTokens > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// splitSentences extracts trimmed sentences from text. Input after the
// last terminal punctuation mark is kept as a final sentence, so an
// unpunctuated trailing fragment is never dropped. Text without any
// terminal punctuation falls back to paragraph splits, then to the whole
// trimmed input.
func splitSentences(text string) []string {
	var raw []string
	end := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		raw = append(raw, text[loc[0]:loc[1]])
		end = loc[1]
	}
	if len(raw) == 0 {
		raw = strings.Split(text, "\n\n")
	} else if tail := text[end:]; strings.TrimSpace(tail) != "" {
		raw = append(raw, tail)
	}

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
