package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"assistant/internal/domain"
)

// DefaultConcurrency is the number of documents embedded at once.
const DefaultConcurrency = 4

// IngestReport summarises one ingestion run. Skipped and Errors cover every
// document that did not make it into the store.
type IngestReport struct {
	Documents int
	Chunks    int
	Skipped   int
	Summary   string
	Errors    []error
}

type embeddedDoc struct {
	chunks  []domain.Chunk
	vectors [][]float32
	err     error
}

// IngestDocuments chunks, embeds and stores docs. Documents are embedded
// concurrently but inserted in the order given, so a corpus always yields the
// same store indices. A document whose chunks cannot all be embedded is
// logged and skipped. Only cancellation and a failed embedder preparation
// abort the run.
func (s *RAGService) IngestDocuments(ctx context.Context, docs []domain.Document) (IngestReport, error) {
	var report IngestReport

	results := make([]embeddedDoc, len(docs))
	var corpus []string
	for i, d := range docs {
		results[i].chunks = s.chunker.Chunk(d)
		for _, c := range results[i].chunks {
			corpus = append(corpus, c.Text)
		}
	}

	if len(corpus) == 0 {
		s.logger.Warn("no document text to ingest")
	}
	if p, ok := s.embedder.(domain.Preparer); ok {
		if err := p.Prepare(corpus); err != nil {
			return report, fmt.Errorf("prepare embedder %s: %w", s.embedder.Name(), err)
		}
	}

	limit := rate.Inf
	if s.opts.RequestsPerSecond > 0 {
		limit = rate.Limit(s.opts.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i := range results {
		r := &results[i]
		doc := docs[i]
		g.Go(func() error {
			r.vectors = make([][]float32, 0, len(r.chunks))
			for _, c := range r.chunks {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				vec, err := s.embedder.Embed(gctx, c.Text)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					r.err = fmt.Errorf("%w: %s: %w", domain.ErrIngestionFailure, doc.Path, err)
					return nil
				}
				r.vectors = append(r.vectors, vec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrIngestionFailure, err)
	}

	var text strings.Builder
	for i, r := range results {
		if r.err == nil {
			r.err = s.insert(r)
		}
		if r.err != nil {
			s.logger.Warn("skipping document", "path", docs[i].Path, "error", r.err)
			report.Skipped++
			report.Errors = append(report.Errors, r.err)
			continue
		}
		report.Documents++
		report.Chunks += len(r.chunks)
		text.WriteString(docs[i].Content)
		text.WriteString("\n")
	}

	if s.summarizer != nil {
		report.Summary = s.summarizer.Summarize(text.String(), s.opts.SummarySentences)
	}
	s.logger.Info("ingested documents",
		"documents", report.Documents, "chunks", report.Chunks, "skipped", report.Skipped, "embedder", s.embedder.Name())
	return report, nil
}

// insert stores a document's chunks, refusing the whole document when any of
// its vectors would not fit the store's dimension.
func (s *RAGService) insert(r embeddedDoc) error {
	dim := s.store.Dimension()
	for _, v := range r.vectors {
		if dim == 0 {
			dim = len(v)
		}
		if len(v) == 0 || len(v) != dim {
			return fmt.Errorf("%w: %w: got %d, want %d", domain.ErrIngestionFailure, domain.ErrDimensionMismatch, len(v), dim)
		}
	}
	for i, c := range r.chunks {
		if _, err := s.store.Insert(c, r.vectors[i]); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrIngestionFailure, err)
		}
	}
	return nil
}
