package memory

import (
	"fmt"
	"sort"
	"sync"

	"assistant/internal/domain"
	"assistant/internal/vectorstore"
)

var _ vectorstore.Store = (*Storage)(nil)

// Storage is an in-memory vector store answering queries by exact linear
// scan over squared Euclidean distance. The dimension is fixed by the first
// inserted vector.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	chunks    []domain.Chunk
}

func NewStorage() *Storage { return &Storage{} }

// Insert appends the pair and returns its index. Chunk and vector become
// visible to readers together.
func (s *Storage) Insert(chunk domain.Chunk, vector []float32) (int, error) {
	if len(vector) == 0 {
		return 0, fmt.Errorf("%w: empty vector", domain.ErrDimensionMismatch)
	}
	v := append([]float32(nil), vector...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		s.dimension = len(v)
	} else if len(v) != s.dimension {
		return 0, fmt.Errorf("%w: got %d, store has %d", domain.ErrDimensionMismatch, len(v), s.dimension)
	}
	s.chunks = append(s.chunks, chunk)
	s.vectors = append(s.vectors, v)
	return len(s.vectors) - 1, nil
}

// Nearest returns up to k entries closest to query, ascending by distance.
func (s *Storage) Nearest(query []float32, k int) ([]domain.Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.vectors) == 0 {
		return nil, domain.ErrEmptyStore
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d, store has %d", domain.ErrDimensionMismatch, len(query), s.dimension)
	}

	dists := make([]float64, len(s.vectors))
	idxs := make([]int, len(s.vectors))
	for i := range s.vectors {
		dists[i] = vectorstore.SquaredL2(query, s.vectors[i])
		idxs[i] = i
	}
	sort.Slice(idxs, func(a, b int) bool {
		da, db := dists[idxs[a]], dists[idxs[b]]
		if da != db {
			return da < db
		}
		return idxs[a] < idxs[b]
	})
	if k > len(idxs) {
		k = len(idxs)
	}
	hits := make([]domain.Hit, k)
	for i := 0; i < k; i++ {
		j := idxs[i]
		hits[i] = domain.Hit{Index: j, Distance: dists[j], Chunk: s.chunks[j]}
	}
	return hits, nil
}

// Vector returns a copy of the vector stored at index.
func (s *Storage) Vector(index int) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.vectors) {
		return nil, false
	}
	return append([]float32(nil), s.vectors[index]...), true
}

// Chunk returns the chunk stored at index.
func (s *Storage) Chunk(index int) (domain.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.chunks) {
		return domain.Chunk{}, false
	}
	return s.chunks[index], true
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Dimension is 0 until the first successful insert.
func (s *Storage) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}
