package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"assistant/internal/domain"
	"assistant/internal/logging"
	"assistant/internal/relevance"
	"assistant/internal/vectorstore"
)

// Answers returned by Answer when no generated text is available.
const (
	DefaultFallbackAnswer = "I'm sorry, I didn't understand that. Could you rephrase or ask something else?"
	DefaultErrorAnswer    = "I'm sorry, something went wrong while answering your question. Please try again."
	DefaultTopK           = 3
	DefaultDelimiter      = "\n"
)

// State is a step of a single question's journey through the service.
type State int

const (
	Idle State = iota
	Embedding
	Gating
	Rejected
	Retrieving
	ContextAssembled
	AwaitingGeneration
	Answered
	EmbeddingFailed
	RetrievalFailed
	GenerationFailed
)

var stateNames = [...]string{
	Idle:               "idle",
	Embedding:          "embedding",
	Gating:             "gating",
	Rejected:           "rejected",
	Retrieving:         "retrieving",
	ContextAssembled:   "context_assembled",
	AwaitingGeneration: "awaiting_generation",
	Answered:           "answered",
	EmbeddingFailed:    "embedding_failed",
	RetrievalFailed:    "retrieval_failed",
	GenerationFailed:   "generation_failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case Rejected, Answered, EmbeddingFailed, RetrievalFailed, GenerationFailed:
		return true
	}
	return false
}

// Outcome describes how a question was handled.
type Outcome struct {
	State      State
	Answer     string
	Similarity float64
	Hits       []domain.Hit
	Context    string
}

// Dependencies are the collaborators the service is built from. Summarizer
// and Logger are optional.
type Dependencies struct {
	Embedder   domain.Embedder
	Generator  domain.Generator
	Store      vectorstore.Store
	Chunker    domain.Chunker
	Summarizer domain.Summarizer
	Logger     *slog.Logger
}

// Options tune retrieval and ingestion. TopK and Threshold are used as given
// (0 is a valid threshold); start from DefaultOptions. Other zero fields take
// their defaults.
type Options struct {
	TopK              int
	Threshold         float64
	Delimiter         string
	Concurrency       int
	RequestsPerSecond float64
	SummarySentences  int
	FallbackAnswer    string
	ErrorAnswer       string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		TopK:           DefaultTopK,
		Threshold:      relevance.DefaultThreshold,
		Delimiter:      DefaultDelimiter,
		Concurrency:    DefaultConcurrency,
		FallbackAnswer: DefaultFallbackAnswer,
		ErrorAnswer:    DefaultErrorAnswer,
	}
}

// RAGService answers questions from an indexed document corpus. It keeps no
// per-request state, so Answer is safe for concurrent use.
type RAGService struct {
	embedder   domain.Embedder
	generator  domain.Generator
	store      vectorstore.Store
	chunker    domain.Chunker
	summarizer domain.Summarizer
	gate       *relevance.Gate
	logger     *slog.Logger
	opts       Options
}

func NewRAGService(deps Dependencies, opts Options) (*RAGService, error) {
	if deps.Embedder == nil || deps.Generator == nil || deps.Store == nil || deps.Chunker == nil {
		return nil, fmt.Errorf("%w: embedder, generator, store and chunker are required", domain.ErrInvalidInput)
	}
	if opts.TopK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, opts.TopK)
	}
	gate, err := relevance.NewGate(opts.Threshold)
	if err != nil {
		return nil, err
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.FallbackAnswer == "" {
		opts.FallbackAnswer = DefaultFallbackAnswer
	}
	if opts.ErrorAnswer == "" {
		opts.ErrorAnswer = DefaultErrorAnswer
	}
	return &RAGService{
		embedder:   deps.Embedder,
		generator:  deps.Generator,
		store:      deps.Store,
		chunker:    deps.Chunker,
		summarizer: deps.Summarizer,
		gate:       gate,
		logger:     logging.OrDefault(deps.Logger),
		opts:       opts,
	}, nil
}

// Store exposes the underlying vector store.
func (s *RAGService) Store() vectorstore.Store { return s.store }

// Answer is the query entry point. It never fails: rejected questions get the
// fallback answer and errors become an apology. Log lines carry the request
// id found in ctx, or a fresh one.
func (s *RAGService) Answer(ctx context.Context, query string) string {
	id := logging.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logging.WithRequestID(ctx, id)
	}
	logger := s.logger.With("request_id", id)
	out, err := s.respond(ctx, query, logger)
	if err != nil {
		logger.Warn("answer failed", "state", out.State, "error", err)
		return s.opts.ErrorAnswer
	}
	logger.Info("answered", "state", out.State, "similarity", out.Similarity, "hits", len(out.Hits))
	return out.Answer
}

// Respond walks a question through embedding, relevance gating, retrieval and
// generation, and reports where it ended. A non-nil error always comes with
// one of the failure states.
func (s *RAGService) Respond(ctx context.Context, query string) (Outcome, error) {
	return s.respond(ctx, query, s.logger)
}

func (s *RAGService) respond(ctx context.Context, query string, logger *slog.Logger) (Outcome, error) {
	out := Outcome{State: Idle}
	step := func(next State) {
		logger.Debug("transition", "from", out.State, "to", next)
		out.State = next
	}

	step(Embedding)
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		step(EmbeddingFailed)
		if !errors.Is(err, domain.ErrEmbeddingFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
		}
		return out, err
	}

	step(Gating)
	decision, err := s.gate.Check(vec, s.store)
	if err != nil {
		step(RetrievalFailed)
		return out, fmt.Errorf("relevance check: %w", err)
	}
	out.Similarity = decision.Similarity
	if !decision.Relevant {
		step(Rejected)
		out.Answer = s.opts.FallbackAnswer
		return out, nil
	}

	step(Retrieving)
	hits, err := s.store.Nearest(vec, s.opts.TopK)
	if err != nil {
		step(RetrievalFailed)
		return out, fmt.Errorf("retrieve: %w", err)
	}
	out.Hits = hits

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Chunk.Text
	}
	out.Context = strings.Join(texts, s.opts.Delimiter)
	step(ContextAssembled)

	step(AwaitingGeneration)
	answer, err := s.generator.Generate(ctx, query, out.Context)
	if err != nil {
		step(GenerationFailed)
		if !errors.Is(err, domain.ErrGenerationFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
		}
		return out, err
	}
	out.Answer = answer
	step(Answered)
	return out, nil
}
