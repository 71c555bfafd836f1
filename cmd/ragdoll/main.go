// Command ragdoll indexes a directory of documents into a local vector
// store and answers questions about them using a local Ollama model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driven/config/file"
	embedollama "github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driven/embedding/ollama"
	genollama "github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driven/llm/ollama"
	"github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driven/storage/sqlite"
	"github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driving/cli"
	"github.com/ragdoll-labs/ragdoll-cli/internal/chunker"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/services"
	"github.com/ragdoll-labs/ragdoll-cli/internal/corpus"
	"github.com/ragdoll-labs/ragdoll-cli/internal/extractors"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ragdoll: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present; environment overrides config values.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
	}

	cfg, err := file.LoadConfig("")
	if err != nil {
		return err
	}
	applyEnvOverrides(cfg)

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder := embedollama.NewEmbeddingService(embedollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbedModel,
		Timeout: cfg.Ollama.Timeout(),
	})
	defer embedder.Close()

	generator := genollama.NewGenerationService(genollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.GenModel,
		Timeout: cfg.Ollama.Timeout(),
	})
	defer generator.Close()

	registry := extractors.NewDefaultRegistry()
	source := corpus.NewSource(cfg.CorpusDir, registry)
	chk := chunker.New(
		chunker.WithSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	indexer := services.NewIndexOrchestrator(source, store, embedder, chk)
	retriever := services.NewRetriever(embedder, store, cfg.Retrieval.TopK)
	answerer := services.NewAnswerer(retriever, generator, cfg.Retrieval.ContextBudget)

	if prompts, err := file.NewPromptStore(""); err == nil {
		answerer.SetPromptStore(prompts)
	}

	cli.Configure(cli.Services{
		Indexer:   indexer,
		Query:     answerer,
		Store:     store,
		CorpusDir: cfg.CorpusDir,
		Version:   version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}

// applyEnvOverrides lets RAGDOLL_* environment variables override the
// config file, mainly for scripting and CI.
func applyEnvOverrides(cfg *file.Config) {
	if v := os.Getenv("RAGDOLL_CORPUS_DIR"); v != "" {
		cfg.CorpusDir = v
	}
	if v := os.Getenv("RAGDOLL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("RAGDOLL_OLLAMA_URL"); v != "" {
		cfg.Ollama.BaseURL = v
	}
	if v := os.Getenv("RAGDOLL_EMBED_MODEL"); v != "" {
		cfg.Ollama.EmbedModel = v
	}
	if v := os.Getenv("RAGDOLL_GEN_MODEL"); v != "" {
		cfg.Ollama.GenModel = v
	}
}
