package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	assert.Equal(t, DefaultMaxTokens, s.maxTokens)
}

func TestNew_WithMaxTokens(t *testing.T) {
	s := New(WithMaxTokens(10))
	assert.Equal(t, 10, s.maxTokens)

	// Non-positive values keep the default
	s = New(WithMaxTokens(0))
	assert.Equal(t, DefaultMaxTokens, s.maxTokens)
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New()
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplit_SingleSentence(t *testing.T) {
	s := New()
	chunks := s.Split("AI improves diagnostics.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "AI improves diagnostics.", chunks[0])
}

func TestSplit_AccumulatesUpToBudget(t *testing.T) {
	s := New(WithMaxTokens(6))
	chunks := s.Split("One two three. Four five six. Seven eight nine.")
	// Each sentence is 3 words; budget of 6 fits two per chunk.
	require.Len(t, chunks, 2)
	assert.Equal(t, "One two three. Four five six.", chunks[0])
	assert.Equal(t, "Seven eight nine.", chunks[1])
}

func TestSplit_OversizedSentenceKeptWhole(t *testing.T) {
	s := New(WithMaxTokens(2))
	chunks := s.Split("This sentence has far more words than the budget allows.")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "budget allows")
}

func TestSplit_NoTerminalPunctuation(t *testing.T) {
	s := New()
	chunks := s.Split("a heading without punctuation\n\nanother paragraph")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "a heading without punctuation")
	assert.Contains(t, chunks[0], "another paragraph")
}

func TestSplit_NoTextLoss(t *testing.T) {
	input := "First fact here. Second fact follows! Third one asks? Fourth closes the set. " +
		"Fifth adds detail. Sixth wraps up."
	s := New(WithMaxTokens(5))
	chunks := s.Split(input)
	require.NotEmpty(t, chunks)

	joined := strings.Join(chunks, " ")
	for _, want := range []string{
		"First fact here.",
		"Second fact follows!",
		"Third one asks?",
		"Fourth closes the set.",
		"Fifth adds detail.",
		"Sixth wraps up.",
	} {
		assert.Contains(t, joined, want)
	}
}

func TestSplit_KeepsTrailingFragment(t *testing.T) {
	s := New()
	chunks := s.Split("AI improves diagnostics. AI reduces cost")
	require.NotEmpty(t, chunks)

	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, "AI improves diagnostics.")
	assert.Contains(t, joined, "AI reduces cost",
		"text after the last terminal punctuation must survive splitting")
}

func TestSplit_TrailingFragmentBudgeted(t *testing.T) {
	s := New(WithMaxTokens(3))
	chunks := s.Split("Alpha one two. Beta three four")
	require.Len(t, chunks, 2)
	assert.Equal(t, "Alpha one two.", chunks[0])
	assert.Equal(t, "Beta three four", chunks[1])
}

func TestSplit_PreservesOrder(t *testing.T) {
	s := New(WithMaxTokens(3))
	chunks := s.Split("Alpha one. Beta two. Gamma three.")
	require.Len(t, chunks, 3)
	assert.Equal(t, "Alpha one.", chunks[0])
	assert.Equal(t, "Beta two.", chunks[1])
	assert.Equal(t, "Gamma three.", chunks[2])
}
