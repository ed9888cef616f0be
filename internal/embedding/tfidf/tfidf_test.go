package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/domain"
	"assistant/internal/vectorstore"
)

var corpus = []string{
	"Cassandra is a distributed database.",
	"Paris hosts the Louvre museum.",
	"Bananas are rich in potassium.",
}

func TestEmbed_BeforePrepare(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
}

func TestPrepare_Errors(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare([]string{"the a an"}))
}

func TestPrepare_EmptyCorpus(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(nil))
	assert.Zero(t, e.Dimension())

	v, err := e.Embed(context.Background(), "What is Cassandra?")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestEmbed_DeterministicAndNormalised(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))
	assert.Positive(t, e.Dimension())

	a, err := e.Embed(context.Background(), corpus[0])
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), corpus[0])
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, e.Dimension())

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestEmbed_QueryMatchesRelatedChunk(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	q, err := e.Embed(context.Background(), "What is Cassandra?")
	require.NoError(t, err)
	doc, err := e.Embed(context.Background(), corpus[0])
	require.NoError(t, err)
	other, err := e.Embed(context.Background(), corpus[2])
	require.NoError(t, err)

	assert.Greater(t, vectorstore.CosineSimilarity(q, doc), 0.45)
	assert.Equal(t, 0.0, vectorstore.CosineSimilarity(q, other))
}

func TestEmbed_UnknownTermsGiveZeroVector(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	v, err := e.Embed(context.Background(), "What's the capital of France?")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestEmbed_CancelledContext(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Embed(ctx, "Cassandra")
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
	assert.ErrorIs(t, err, context.Canceled)
}
