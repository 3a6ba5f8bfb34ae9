package types

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrRootNotFound is returned when the collection root does not exist.
	ErrRootNotFound = errors.New("root path not found")

	// ErrInvalidIndex is returned on out-of-range chunk retrieval.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrLengthMismatch is returned when chunks and embeddings disagree in length.
	ErrLengthMismatch = errors.New("chunks and embeddings length mismatch")

	// ErrInvalidConfig is returned when configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed is returned when embedding generation fails.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
