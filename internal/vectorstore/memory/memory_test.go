package memory

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/domain"
)

func chunk(text string) domain.Chunk { return domain.Chunk{Text: text} }

func fill(t *testing.T, s *Storage, vectors ...[]float32) {
	t.Helper()
	for i, v := range vectors {
		idx, err := s.Insert(chunk("c"+strconv.Itoa(i)), v)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
}

func TestInsert_AssignsMonotonicIndices(t *testing.T) {
	s := NewStorage()
	fill(t, s, []float32{1, 0}, []float32{0, 1}, []float32{1, 1})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Dimension())

	c, ok := s.Chunk(1)
	require.True(t, ok)
	assert.Equal(t, "c1", c.Text)
}

func TestInsert_DimensionMismatch(t *testing.T) {
	s := NewStorage()
	fill(t, s, []float32{1, 0, 0})

	_, err := s.Insert(chunk("bad"), []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 1, s.Len())

	_, err = s.Insert(chunk("empty"), nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 1, s.Len())
}

func TestInsert_CopiesVector(t *testing.T) {
	s := NewStorage()
	v := []float32{1, 2}
	fill(t, s, v)
	v[0] = 99

	got, ok := s.Vector(0)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, got)

	got[1] = 42
	again, _ := s.Vector(0)
	assert.Equal(t, []float32{1, 2}, again)
}

func TestNearest_EmptyStore(t *testing.T) {
	s := NewStorage()
	_, err := s.Nearest([]float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrEmptyStore)
}

func TestNearest_InvalidK(t *testing.T) {
	s := NewStorage()
	fill(t, s, []float32{1})
	_, err := s.Nearest([]float32{1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNearest_QueryDimensionMismatch(t *testing.T) {
	s := NewStorage()
	fill(t, s, []float32{1, 2})
	_, err := s.Nearest([]float32{1, 2, 3}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestNearest_OrderingAndClamp(t *testing.T) {
	s := NewStorage()
	fill(t, s,
		[]float32{5, 0},
		[]float32{1, 0},
		[]float32{3, 0},
		[]float32{0, 0},
		[]float32{4, 0},
	)

	hits, err := s.Nearest([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{3, 1, 2}, indices(hits))
	assert.Equal(t, []float64{0, 1, 9}, distances(hits))
	assert.Equal(t, "c3", hits[0].Chunk.Text)

	hits, err = s.Nearest([]float32{0, 0}, 50)
	require.NoError(t, err)
	require.Len(t, hits, 5)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
}

func TestNearest_TiesBreakByLowerIndex(t *testing.T) {
	s := NewStorage()
	fill(t, s,
		[]float32{1, 0},
		[]float32{0, 1},
		[]float32{-1, 0},
		[]float32{0, -1},
	)
	for i := 0; i < 20; i++ {
		hits, err := s.Nearest([]float32{0, 0}, 4)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, indices(hits))
	}
}

func TestConcurrentInsertAndQuery(t *testing.T) {
	s := NewStorage()
	const writers, perWriter = 8, 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := float32(w*perWriter + i)
				_, err := s.Insert(chunk(strconv.Itoa(int(id))), []float32{id, -id})
				assert.NoError(t, err)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				hits, err := s.Nearest([]float32{10, -10}, 5)
				if err != nil {
					assert.ErrorIs(t, err, domain.ErrEmptyStore)
					continue
				}
				for _, h := range hits {
					v, ok := s.Vector(h.Index)
					if assert.True(t, ok) {
						assert.Equal(t, strconv.Itoa(int(v[0])), h.Chunk.Text)
					}
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, writers*perWriter, s.Len())
}

func TestNearest_DistancesFinerThanFloat32(t *testing.T) {
	s := NewStorage()
	// 1+1e-8 and 1 are the same float32 but distinct float64 distances.
	fill(t, s, []float32{1, 1e-4}, []float32{1, 0})

	hits, err := s.Nearest([]float32{0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, indices(hits))
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func indices(hits []domain.Hit) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Index
	}
	return out
}

func distances(hits []domain.Hit) []float64 {
	out := make([]float64, len(hits))
	for i, h := range hits {
		out[i] = h.Distance
	}
	return out
}
