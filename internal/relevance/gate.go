// Package relevance decides whether a corpus plausibly holds the answer to a
// query, from the cosine similarity between the query and its single nearest
// stored neighbour.
package relevance

import (
	"errors"
	"fmt"

	"assistant/internal/domain"
	"assistant/internal/vectorstore"
)

// DefaultThreshold is the similarity a query's nearest neighbour must reach.
const DefaultThreshold = 0.45

// Decision is the outcome of a gate check. Nearest is -1 when the store was empty.
type Decision struct {
	Relevant   bool
	Similarity float64
	Nearest    int
}

// Gate holds a fixed similarity threshold.
type Gate struct {
	threshold float64
}

// NewGate returns a Gate. The threshold must lie in [-1, 1].
func NewGate(threshold float64) (*Gate, error) {
	if threshold < -1 || threshold > 1 {
		return nil, fmt.Errorf("%w: similarity threshold %v outside [-1, 1]", domain.ErrInvalidInput, threshold)
	}
	return &Gate{threshold: threshold}, nil
}

func (g *Gate) Threshold() float64 { return g.threshold }

// Check finds the nearest neighbour by the store's ranking distance and
// compares its cosine similarity with the threshold. An empty store yields a
// non-relevant decision and no error.
func (g *Gate) Check(query []float32, store vectorstore.Store) (Decision, error) {
	hits, err := store.Nearest(query, 1)
	if errors.Is(err, domain.ErrEmptyStore) {
		return Decision{Nearest: -1}, nil
	}
	if err != nil {
		return Decision{Nearest: -1}, err
	}
	nearest, ok := store.Vector(hits[0].Index)
	if !ok {
		return Decision{Nearest: -1}, fmt.Errorf("nearest entry %d vanished", hits[0].Index)
	}
	sim := vectorstore.CosineSimilarity(query, nearest)
	return Decision{
		Relevant:   sim >= g.threshold,
		Similarity: sim,
		Nearest:    hits[0].Index,
	}, nil
}

// IsRelevant reports whether query passes threshold against store. It fails
// closed: any error, an empty store included, yields false.
func IsRelevant(query []float32, store vectorstore.Store, threshold float64) bool {
	g, err := NewGate(threshold)
	if err != nil {
		return false
	}
	d, err := g.Check(query, store)
	return err == nil && d.Relevant
}
