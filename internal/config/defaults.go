package config

// Default values filled in by applyConfigDefaults.
const (
	DefaultThreshold    = 0.45
	DefaultDelimiter    = "\n"
	DefaultTopK         = 3
	DefaultChunkSize    = 500
	DefaultConcurrency  = 4
	DefaultMaxSentences = 5
	DefaultServerAddr   = ":8080"
	DefaultDocsPath     = "docs"
	DefaultAPIKeyEnv    = "OPENAI_API_KEY"
	DefaultMaxRetries   = 5
)

// Default returns the configuration used when no file exists: TF-IDF
// embeddings, a local Ollama model for answers and an in-memory store.
func Default() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "tfidf"},
		Generator:   GeneratorConfig{Type: "ollama"},
		Chunker:     ChunkerConfig{Type: "fixed"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Summarizer:  SummarizerConfig{Type: "frequency"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "fixed"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = DefaultChunkSize
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = DefaultMaxSentences
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Retrieval.SimilarityThreshold == nil {
		th := DefaultThreshold
		cfg.Retrieval.SimilarityThreshold = &th
	}
	if cfg.Retrieval.ContextDelimiter == nil {
		d := QuotedString(DefaultDelimiter)
		cfg.Retrieval.ContextDelimiter = &d
	}
	if cfg.Ingest.Paths == nil {
		cfg.Ingest.Paths = []string{DefaultDocsPath}
	}
	if cfg.Ingest.Concurrency == 0 {
		cfg.Ingest.Concurrency = DefaultConcurrency
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	switch cfg.Embedder.Type {
	case "":
		cfg.Embedder.Type = "tfidf"
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "https://api.openai.com/v1", "text-embedding-3-small", 30)
		if cfg.Embedder.OpenAI.MaxRetries == 0 {
			cfg.Embedder.OpenAI.MaxRetries = DefaultMaxRetries
		}
	case "ollama":
		if cfg.Embedder.Ollama == nil {
			cfg.Embedder.Ollama = &OllamaConfig{}
		}
		applyOllamaDefaults(cfg.Embedder.Ollama, "all-minilm", 30)
		if cfg.Embedder.Ollama.MaxRetries == 0 {
			cfg.Embedder.Ollama.MaxRetries = DefaultMaxRetries
		}
	}

	switch cfg.Generator.Type {
	case "":
		cfg.Generator.Type = "ollama"
		fallthrough
	case "ollama":
		if cfg.Generator.Ollama == nil {
			cfg.Generator.Ollama = &OllamaConfig{}
		}
		applyOllamaDefaults(cfg.Generator.Ollama, "tinydolphin", 120)
	case "openai":
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Generator.OpenAI, "https://api.openai.com/v1", "gpt-4o-mini", 120)
	}
}

func applyOpenAIDefaults(c *OpenAIConfig, baseURL, model string, timeoutSecs int) {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = timeoutSecs
	}
}

func applyOllamaDefaults(c *OllamaConfig, model string, timeoutSecs int) {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = timeoutSecs
	}
}
