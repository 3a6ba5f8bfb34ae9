package embedder

import (
	"context"
	"crypto/sha256"
	"math"
)

// DefaultHashDimensions is the embedding dimension of the hash provider.
const DefaultHashDimensions = 384

// Hash is a deterministic, offline Provider that derives unit-length
// vectors from SHA-256 of the text. Identical texts always map to identical
// vectors, which makes it suitable for tests and for exercising the
// pipeline without a model endpoint. It carries no semantic signal.
type Hash struct {
	dimensions int
}

// NewHash creates a hash-based embedding provider.
func NewHash(dimensions int) *Hash {
	if dimensions <= 0 {
		dimensions = DefaultHashDimensions
	}
	return &Hash{dimensions: dimensions}
}

// Name returns the provider name.
func (h *Hash) Name() string {
	return "hash"
}

// Dimensions returns the embedding dimension.
func (h *Hash) Dimensions() int {
	return h.dimensions
}

// Embed generates one deterministic vector per text.
func (h *Hash) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = h.hashToVector(text)
	}
	return out, nil
}

// hashToVector fills the dimensions from the text hash, rehashing with the
// block index for dimensions past 32, then normalizes to unit length.
func (h *Hash) hashToVector(text string) []float32 {
	vec := make([]float32, h.dimensions)
	hash := sha256.Sum256([]byte(text))

	for i := 0; i < h.dimensions; i++ {
		if i > 0 && i%32 == 0 {
			hash = sha256.Sum256(append(hash[:], byte(i/32)))
		}
		// Map byte to [-1, 1].
		vec[i] = (float32(hash[i%32]) / 127.5) - 1.0
	}

	return normalize(vec)
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := float32(math.Sqrt(sum))
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
