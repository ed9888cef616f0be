package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assistant/internal/domain"
)

func TestRetry_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("busy"))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")
	err := Retry(context.Background(), 3, func(ctx context.Context) error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	calls := 0
	busy := errors.New("busy")
	err := Retry(context.Background(), 1, func(ctx context.Context) error {
		calls++
		return Retryable(busy)
	})
	assert.ErrorIs(t, err, busy)
	assert.Equal(t, 2, calls)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := Retry(ctx, 100, func(ctx context.Context) error {
		return Retryable(errors.New("busy"))
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFailure(t *testing.T) {
	err := Failure("ollama", context.Canceled)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "ollama")
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := []float32{0, 0}
	Normalize(zero)
	assert.Equal(t, []float32{0, 0}, zero)
}
