// Package openai embeds text through an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"assistant/internal/domain"
	"assistant/internal/embedding"
)

var _ domain.Embedder = (*Client)(nil)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 30 * time.Second
)

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client is an embeddings client. Vectors are L2-normalised so that ranking
// by Euclidean distance agrees with ranking by cosine similarity.
type Client struct {
	client     *openai.Client
	model      string
	maxRetries uint64
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	oc := openai.DefaultConfig(key)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{
		client:     openai.NewClientWithConfig(oc),
		model:      cfg.Model,
		maxRetries: uint64(cfg.MaxRetries),
	}, nil
}

func (c *Client) Name() string { return "openai" }

// Embed returns an embedding vector for the given text. Rate limiting and
// server errors are retried; everything else fails immediately.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.Failure(c.Name(), errors.New("cannot embed empty text"))
	}
	var vec []float32
	err := embedding.Retry(ctx, c.maxRetries, func(ctx context.Context) error {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.model),
			Input: []string{text},
		})
		if err != nil {
			if transient(err) {
				return embedding.Retryable(err)
			}
			return err
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return errors.New("no embedding returned")
		}
		raw := resp.Data[0].Embedding
		vec = make([]float32, len(raw))
		for i := range raw {
			vec[i] = float32(raw[i])
		}
		return nil
	})
	if err != nil {
		return nil, embedding.Failure(c.Name(), err)
	}
	embedding.Normalize(vec)
	return vec, nil
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
