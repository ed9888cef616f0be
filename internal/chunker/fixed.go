package chunker

import (
	"fmt"
	"unicode/utf8"

	"assistant/internal/domain"
)

// DefaultChunkSize is the number of characters per chunk when none is configured.
const DefaultChunkSize = 500

// Split cuts text into consecutive, non-overlapping pieces of exactly size
// characters; the last piece holds the remainder. A character is a Unicode
// code point, and each undecodable byte counts as one. Pieces are slices of
// text, so joining them reproduces the input byte for byte.
//
// Boundaries ignore words and sentences. Split panics if size is not positive.
func Split(text string, size int) []string {
	if size <= 0 {
		panic(fmt.Sprintf("chunker: non-positive chunk size %d", size))
	}
	if text == "" {
		return nil
	}
	out := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, count := 0, 0
	for i := 0; i < len(text); {
		_, width := utf8.DecodeRuneInString(text[i:])
		i += width
		count++
		if count == size {
			out = append(out, text[start:i])
			start, count = i, 0
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// Fixed is a domain.Chunker producing fixed-size chunks.
type Fixed struct {
	size int
}

// New returns a Fixed chunker. size must be positive.
func New(size int) (*Fixed, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	return &Fixed{size: size}, nil
}

// Size returns the configured chunk size in characters.
func (c *Fixed) Size() int { return c.size }

// Chunk splits the document content in document order.
func (c *Fixed) Chunk(document domain.Document) []domain.Chunk {
	pieces := Split(document.Content, c.size)
	if len(pieces) == 0 {
		return nil
	}
	chunks := make([]domain.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = domain.Chunk{DocumentID: document.ID, Text: p, Position: i}
	}
	return chunks
}
