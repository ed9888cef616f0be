package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"assistant/internal/chunker"
	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/embedding/ollama"
	"assistant/internal/embedding/openai"
	"assistant/internal/embedding/tfidf"
	"assistant/internal/llm"
	llmollama "assistant/internal/llm/ollama"
	llmopenai "assistant/internal/llm/openai"
	"assistant/internal/router"
	"assistant/internal/service"
	"assistant/internal/source"
	"assistant/internal/summarizer"
	"assistant/internal/vectorstore"
	"assistant/internal/vectorstore/memory"
)

// App is a fully wired assistant with its corpus ingested.
type App struct {
	Config  *config.AppConfig
	Service *service.RAGService
	Router  *router.Router
	Report  service.IngestReport
	Logger  *slog.Logger
}

// Build assembles every component named by cfg and ingests the configured
// paths plus extraDocs. Configuration problems abort; unreadable documents
// are logged and skipped.
func Build(ctx context.Context, cfg *config.AppConfig, extraDocs []string, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	emb, err := newEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	completer, err := newCompleter(cfg.Generator)
	if err != nil {
		return nil, err
	}
	var gen domain.Generator = llm.Extractive{}
	if completer != nil {
		gen = llm.NewGenerator(completer)
	}

	ch, err := chunker.New(cfg.Chunker.ChunkSize)
	if err != nil {
		return nil, err
	}
	var store vectorstore.Store
	switch cfg.VectorStore.Type {
	case "memory":
		store = memory.NewStorage()
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	svc, err := service.NewRAGService(service.Dependencies{
		Embedder:   emb,
		Generator:  gen,
		Store:      store,
		Chunker:    ch,
		Summarizer: summarizer.NewFrequency(),
		Logger:     logger,
	}, service.Options{
		TopK:              cfg.Retrieval.TopK,
		Threshold:         cfg.Threshold(),
		Delimiter:         cfg.Delimiter(),
		Concurrency:       cfg.Ingest.Concurrency,
		RequestsPerSecond: cfg.Ingest.RequestsPerSecond,
		SummarySentences:  cfg.Summarizer.MaxSentences,
	})
	if err != nil {
		return nil, err
	}

	paths := append(append([]string{}, cfg.Ingest.Paths...), extraDocs...)
	docs, loadErrs := source.NewLoader(logger).LoadAll(ctx, paths)
	report, err := svc.IngestDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	report.Skipped += len(loadErrs)
	report.Errors = append(loadErrs, report.Errors...)

	handlers := map[router.Intent]router.Handler{
		router.SearchDocuments: router.HandlerFunc(svc.Answer),
	}
	if completer != nil {
		handlers[router.Generic] = llm.NewChat(completer)
	}

	return &App{
		Config:  cfg,
		Service: svc,
		Router:  router.New(handlers, logger),
		Report:  report,
		Logger:  logger,
	}, nil
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	case "ollama":
		if cfg.Ollama == nil {
			return nil, fmt.Errorf("ollama embedder config missing")
		}
		return ollama.NewClient(ollama.Config{
			BaseURL:    cfg.Ollama.BaseURL,
			Model:      cfg.Ollama.Model,
			Timeout:    time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Ollama.MaxRetries,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// newCompleter returns nil for generator type "none".
func newCompleter(cfg config.GeneratorConfig) (llm.Completer, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "ollama":
		if cfg.Ollama == nil {
			return nil, fmt.Errorf("ollama generator config missing")
		}
		return llmollama.NewClient(llmollama.Config{
			BaseURL:     cfg.Ollama.BaseURL,
			Model:       cfg.Ollama.Model,
			Timeout:     time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
			Temperature: cfg.Ollama.Temperature,
		}), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai generator config missing")
		}
		client, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKeyEnv:   cfg.OpenAI.APIKeyEnv,
			Model:       cfg.OpenAI.Model,
			Timeout:     time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			Temperature: cfg.OpenAI.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("openai generator init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}
