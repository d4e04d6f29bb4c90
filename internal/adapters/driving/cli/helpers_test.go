package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	cachemem "github.com/custodia-labs/reportsmith/internal/adapters/driven/cache/memory"
	indexmem "github.com/custodia-labs/reportsmith/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
	"github.com/custodia-labs/reportsmith/internal/core/services"
)

// --- Stub providers ---

// stubEmbedder returns a fixed vector for every text, which is enough
// for command-level tests: every chunk matches every query.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i], _ = s.Embed(ctx, texts[i])
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int              { return 3 }
func (stubEmbedder) ModelName() string            { return "stub-embed" }
func (stubEmbedder) Ping(_ context.Context) error { return nil }
func (stubEmbedder) Close() error                 { return nil }

type stubLLM struct{}

func (stubLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "Generated section text with a citation [market_trends_2023:1].", nil
}

func (stubLLM) ModelName() string            { return "stub-llm" }
func (stubLLM) Ping(_ context.Context) error { return nil }
func (stubLLM) Close() error                 { return nil }

// setupTestServices wires the commands to an in-memory pipeline and
// returns a cleanup that detaches it again.
func setupTestServices() func() {
	index := indexmem.New()
	embedder := stubEmbedder{}
	retriever := services.NewRetriever(index, embedder)
	synthesizer := services.NewSynthesizer(stubLLM{}, services.WithModelRate(1000))

	SetServices(
		services.NewIngestService(index, embedder, nil),
		services.NewReportService(index, retriever, synthesizer, cachemem.NewReportCache()),
	)
	return func() {
		SetServices(nil, nil)
	}
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// seedIndex ingests a couple of documents through the service layer.
func seedIndex(t *testing.T) {
	t.Helper()
	_, err := ingestService.Ingest(context.Background(),
		[]string{"AI improves diagnostics.", "AI reduces cost."}, "doc1")
	require.NoError(t, err)
}
