// Package embedding holds helpers shared by the embedder adapters in its
// subpackages.
package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sethvargo/go-retry"

	"assistant/internal/domain"
)

// DefaultMaxRetries bounds retries of transient embedding errors.
const DefaultMaxRetries = 5

// Retry runs fn with capped exponential backoff until it succeeds, returns an
// error not marked with Retryable, exhausts maxRetries, or ctx is done.
func Retry(ctx context.Context, maxRetries uint64, fn func(ctx context.Context) error) error {
	b := retry.NewExponential(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(maxRetries, b)
	return retry.Do(ctx, b, fn)
}

// Retryable marks err as transient for Retry.
func Retryable(err error) error { return retry.RetryableError(err) }

// Failure wraps err so that it matches domain.ErrEmbeddingFailure while
// keeping the cause (context cancellation included) inspectable.
func Failure(embedder string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingFailure, embedder, err)
}

// Normalize scales v to unit length in place. Zero vectors are left alone.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
