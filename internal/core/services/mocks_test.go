package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
)

var errEmbedFailed = errors.New("embedding failed")

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// Vectors are produced by the configurable embedFn; unknown texts get
// the fallback vector so query embeddings are deterministic.
type mockEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	embedErr error
	batchErr error
	failOn   string // text whose embedding fails
	calls    []string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:  make(map[string][]float32),
		fallback: []float32{1, 0, 0},
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failOn != "" && text == m.failOn {
		return nil, errEmbedFailed
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	failOn   string // substring of prompt that triggers err
	block    bool   // block until context cancellation
	prompts  []string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	failOn, err, block, response := m.failOn, m.err, m.block, m.response
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil && (failOn == "" || strings.Contains(prompt, failOn)) {
		return "", err
	}
	return response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) recordedPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// mockIndex implements driven.ChunkIndex for testing, recording queries.
type mockIndex struct {
	mu           sync.Mutex
	count        int
	countErr     error
	queryFn      func(k int, filter *driven.QueryFilter) ([]driven.ChunkHit, error)
	recorded     []recordedQuery
	deleteAllErr error
	recreateErr  error
	recreated    int
}

type recordedQuery struct {
	k      int
	filter *driven.QueryFilter
}

func (m *mockIndex) Upsert(_ context.Context, _ domain.Chunk) error { return nil }

func (m *mockIndex) Query(
	_ context.Context, _ []float32, k int, filter *driven.QueryFilter,
) ([]driven.ChunkHit, error) {
	m.mu.Lock()
	m.recorded = append(m.recorded, recordedQuery{k: k, filter: filter})
	fn := m.queryFn
	m.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(k, filter)
}

func (m *mockIndex) Count(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockIndex) GetBySource(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockIndex) Sources(_ context.Context) (map[string]int, error) { return nil, nil }

func (m *mockIndex) DeleteAll(_ context.Context) (int, error) {
	if m.deleteAllErr != nil {
		return 0, m.deleteAllErr
	}
	return m.count, nil
}

func (m *mockIndex) Recreate(_ context.Context) error {
	m.mu.Lock()
	m.recreated++
	m.mu.Unlock()
	return m.recreateErr
}

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) queries() []recordedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedQuery(nil), m.recorded...)
}

// --- helpers ---

func hit(sourceID string, page int, text string, distance float64) driven.ChunkHit {
	chunk := domain.NewChunk(sourceID, page, text)
	chunk.Embedding = []float32{1, 0, 0}
	return driven.ChunkHit{Chunk: chunk, Distance: distance}
}

