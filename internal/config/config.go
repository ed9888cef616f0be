package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"assistant/internal/domain"
)

// OpenAIConfig holds configuration for an OpenAI-compatible API.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty"`
}

// OllamaConfig holds connection details for a local Ollama server.
type OllamaConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
}

// GeneratorConfig selects the model that writes answers and chat replies.
// Type "none" answers with the retrieved passages instead.
type GeneratorConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type      string `yaml:"type"`
	ChunkSize int    `yaml:"chunk_size"`
}

// VectorStoreConfig selects the vector store implementation.
type VectorStoreConfig struct {
	Type string `yaml:"type"`
}

// QuotedString is always written as a double-quoted YAML scalar, so
// whitespace-only values such as "\n" survive a Save/Load round trip.
type QuotedString string

func (q QuotedString) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: string(q)}, nil
}

// RetrievalConfig tunes the relevance gate and context assembly.
// SimilarityThreshold is a pointer because zero is a legal threshold.
type RetrievalConfig struct {
	TopK                int           `yaml:"top_k"`
	SimilarityThreshold *float64      `yaml:"similarity_threshold"`
	ContextDelimiter    *QuotedString `yaml:"context_delimiter"`
}

// IngestConfig controls which documents are loaded at startup and how fast.
type IngestConfig struct {
	Paths             []string `yaml:"paths"`
	Concurrency       int      `yaml:"concurrency"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// Threshold returns the configured similarity threshold.
func (c *AppConfig) Threshold() float64 {
	if c.Retrieval.SimilarityThreshold == nil {
		return DefaultThreshold
	}
	return *c.Retrieval.SimilarityThreshold
}

// Delimiter returns the configured context delimiter.
func (c *AppConfig) Delimiter() string {
	if c.Retrieval.ContextDelimiter == nil {
		return DefaultDelimiter
	}
	return string(*c.Retrieval.ContextDelimiter)
}

// Validate reports every setting that would make the assistant unusable.
func (c *AppConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(oneOf(c.Embedder.Type, "tfidf", "openai", "ollama"), "embedder.type: unknown %q", c.Embedder.Type)
	check(oneOf(c.Generator.Type, "ollama", "openai", "none"), "generator.type: unknown %q", c.Generator.Type)
	check(oneOf(c.Chunker.Type, "fixed"), "chunker.type: unknown %q", c.Chunker.Type)
	check(oneOf(c.VectorStore.Type, "memory"), "vector_store.type: unknown %q", c.VectorStore.Type)
	check(oneOf(c.Summarizer.Type, "frequency"), "summarizer.type: unknown %q", c.Summarizer.Type)
	check(c.Chunker.ChunkSize > 0, "chunker.chunk_size must be positive, got %d", c.Chunker.ChunkSize)
	check(c.Retrieval.TopK > 0, "retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	th := c.Threshold()
	check(th >= -1 && th <= 1, "retrieval.similarity_threshold must be in [-1, 1], got %v", th)
	check(c.Ingest.Concurrency > 0, "ingest.concurrency must be positive, got %d", c.Ingest.Concurrency)
	check(c.Ingest.RequestsPerSecond >= 0, "ingest.requests_per_second must not be negative, got %v", c.Ingest.RequestsPerSecond)
	check(oneOf(c.Log.Format, "text", "json"), "log.format: unknown %q", c.Log.Format)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/assistant/config.yaml.
// If neither exists, it writes defaults to ~/.config/assistant/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "assistant", "config.yaml"), nil
}
