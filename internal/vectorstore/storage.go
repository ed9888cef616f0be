package vectorstore

import "assistant/internal/domain"

// Store owns (chunk, vector) pairs and answers exact k-nearest-neighbour
// queries. Implementations must make Insert atomic with respect to readers
// and must order Nearest results by ascending distance, lower index first on
// ties. The contract says nothing about how the neighbours are found.
type Store interface {
	Insert(chunk domain.Chunk, vector []float32) (int, error)
	Nearest(query []float32, k int) ([]domain.Hit, error)
	Vector(index int) ([]float32, bool)
	Chunk(index int) (domain.Chunk, bool)
	Len() int
	Dimension() int
}
