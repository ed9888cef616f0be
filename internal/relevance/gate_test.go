package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/domain"
	"assistant/internal/vectorstore/memory"
)

func TestNewGate_ValidatesThreshold(t *testing.T) {
	for _, th := range []float64{-1, 0, DefaultThreshold, 1} {
		g, err := NewGate(th)
		require.NoError(t, err)
		assert.Equal(t, th, g.Threshold())
	}
	for _, th := range []float64{-1.01, 1.5} {
		_, err := NewGate(th)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestIsRelevant_EmptyStoreFailsClosed(t *testing.T) {
	s := memory.NewStorage()
	assert.False(t, IsRelevant([]float32{1, 0}, s, -1))

	g, err := NewGate(DefaultThreshold)
	require.NoError(t, err)
	d, err := g.Check([]float32{1, 0}, s)
	require.NoError(t, err)
	assert.False(t, d.Relevant)
	assert.Equal(t, -1, d.Nearest)
}

func TestCheck_UsesCosineOfNearest(t *testing.T) {
	s := memory.NewStorage()
	_, err := s.Insert(domain.Chunk{Text: "x axis"}, []float32{1, 0})
	require.NoError(t, err)
	_, err = s.Insert(domain.Chunk{Text: "y axis"}, []float32{0, 1})
	require.NoError(t, err)

	g, err := NewGate(0.9)
	require.NoError(t, err)

	d, err := g.Check([]float32{0.9, 0.1}, s)
	require.NoError(t, err)
	assert.True(t, d.Relevant)
	assert.Equal(t, 0, d.Nearest)
	assert.Greater(t, d.Similarity, 0.9)

	d, err = g.Check([]float32{0.5, 0.5}, s)
	require.NoError(t, err)
	assert.False(t, d.Relevant)
	assert.InDelta(t, 0.7071, d.Similarity, 1e-3)
}

func TestCheck_MagnitudeDoesNotMatter(t *testing.T) {
	s := memory.NewStorage()
	_, err := s.Insert(domain.Chunk{Text: "far but aligned"}, []float32{100, 0})
	require.NoError(t, err)

	assert.True(t, IsRelevant([]float32{1, 0}, s, 0.99))
}

func TestCheck_DimensionMismatchIsAnError(t *testing.T) {
	s := memory.NewStorage()
	_, err := s.Insert(domain.Chunk{Text: "a"}, []float32{1, 0})
	require.NoError(t, err)

	g, err := NewGate(DefaultThreshold)
	require.NoError(t, err)
	_, err = g.Check([]float32{1, 0, 0}, s)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.False(t, IsRelevant([]float32{1, 0, 0}, s, DefaultThreshold))
}
