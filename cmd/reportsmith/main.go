// Command reportsmith generates citation-backed reports from ingested
// documents. Providers, data paths, and retrieval defaults come from
// ~/.reportsmith/config.toml with environment variable overrides.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	cachemem "github.com/custodia-labs/reportsmith/internal/adapters/driven/cache/memory"
	fileconfig "github.com/custodia-labs/reportsmith/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/reportsmith/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/reportsmith/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/reportsmith/internal/adapters/driven/index/sqlite"
	ollamallm "github.com/custodia-labs/reportsmith/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/reportsmith/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/reportsmith/internal/adapters/driving/cli"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
	"github.com/custodia-labs/reportsmith/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A local .env is a convenience for API keys; absence is fine.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := fileconfig.NewConfigStore(os.Getenv("REPORTSMITH_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	index, err := sqlite.New(config.GetString("index.data_dir"))
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer index.Close()

	embedder, err := buildEmbedder(config)
	if err != nil {
		return fmt.Errorf("configuring embedding provider: %w", err)
	}
	if embedder != nil {
		defer embedder.Close()
	}

	llm, err := buildLLM(config)
	if err != nil {
		return fmt.Errorf("configuring LLM provider: %w", err)
	}
	if llm != nil {
		defer llm.Close()
	}

	cache := cachemem.NewReportCache()
	retriever := services.NewRetriever(index, embedder)

	var synthOpts []services.SynthesizerOption
	if timeout := config.GetInt("llm.timeout_seconds"); timeout > 0 {
		synthOpts = append(synthOpts, services.WithTimeout(time.Duration(timeout)*time.Second))
	}
	synthesizer := services.NewSynthesizer(llm, synthOpts...)

	cli.SetServices(
		services.NewIngestService(index, embedder, nil),
		services.NewReportService(index, retriever, synthesizer, cache),
	)
	cli.SetVersion(version)

	return cli.Execute()
}

// buildEmbedder constructs the configured embedding provider. A nil
// return with nil error means no provider is configured; commands that
// need one fail with a clear message instead of at startup.
func buildEmbedder(config driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := config.GetString("embedding.provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    config.GetString("embedding.base_url"),
			Model:      config.GetString("embedding.model"),
			Dimensions: config.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		apiKey := config.GetString("embedding.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey,
			BaseURL: config.GetString("embedding.base_url"),
			Model:   config.GetString("embedding.model"),
		})
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildLLM constructs the configured LLM provider, mirroring
// buildEmbedder's nil-on-unconfigured behaviour.
func buildLLM(config driven.ConfigStore) (driven.LLMService, error) {
	provider := config.GetString("llm.provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: config.GetString("llm.base_url"),
			Model:   config.GetString("llm.model"),
		}), nil
	case "openai":
		apiKey := config.GetString("llm.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  apiKey,
			BaseURL: config.GetString("llm.base_url"),
			Model:   config.GetString("llm.model"),
		})
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
