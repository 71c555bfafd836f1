package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension with no registered
	// extractor. Such files are skipped during corpus scans.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmbeddingUnavailable indicates the embedding model cannot be
	// reached. Fatal for an indexing run; recoverable for a single query.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the text-generation model cannot
	// be reached. Query-scope only; safe to retry later.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrStoreCorruption indicates the persisted index is unreadable.
	// Requires operator intervention; never silently reported as an
	// empty index.
	ErrStoreCorruption = errors.New("index store corrupted")

	// ErrDimensionMismatch indicates a vector whose dimension differs
	// from the dimension the index was created with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
