// Package embedder defines the embedding generator boundary: given a
// sequence of texts, produce one fixed-dimension vector per text, in the
// same order.
package embedder

import "context"

// Provider generates embeddings. Implementations must return exactly one
// vector per input text, position-aligned with the input.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
