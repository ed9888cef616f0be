package domain

import "context"

// Document is the extracted plain text of one source file.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a fixed-size slice of a document's text, the unit of retrieval.
// DocumentID and Position are informational; retrieval never reads them.
type Chunk struct {
	DocumentID string
	Text       string
	Position   int
}

// Hit is a single nearest-neighbour match. Distance is the squared
// Euclidean distance between the query and the stored vector.
type Hit struct {
	Index    int
	Distance float64
	Chunk    Chunk
}

// Embedder converts free text into a fixed-length vector. It is deterministic
// for a fixed model and must fail with an error wrapping ErrEmbeddingFailure.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Preparer is implemented by embedders that must see the corpus before they
// can produce vectors (TF-IDF builds its vocabulary this way).
type Preparer interface {
	Prepare(corpus []string) error
}

// Generator turns a question and retrieved context into a final answer.
type Generator interface {
	Generate(ctx context.Context, question, retrieved string) (string, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) []Chunk
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) string
}
