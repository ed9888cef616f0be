package domain

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from the
	// store's established dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyStore indicates a query against a store with no entries.
	ErrEmptyStore = errors.New("empty store")

	// ErrEmbeddingFailure wraps transport or model errors from an embedder.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerationFailure wraps errors from the generative model.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrIngestionFailure marks a document that could not be loaded,
	// chunked or embedded at startup.
	ErrIngestionFailure = errors.New("ingestion failure")

	// ErrInvalidInput indicates malformed arguments or configuration.
	ErrInvalidInput = errors.New("invalid input")
)
