package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	p := NewHash(0)

	first, err := p.Embed(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	second, err := p.Embed(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0], first[1])
}

func TestHashAlignmentAndDimensions(t *testing.T) {
	p := NewHash(16)
	assert.Equal(t, 16, p.Dimensions())
	assert.Equal(t, "hash", p.Name())

	texts := []string{"a", "b", "c"}
	out, err := p.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, out, len(texts))
	for _, vec := range out {
		assert.Len(t, vec, 16)
	}
}

func TestHashUnitNorm(t *testing.T) {
	p := NewHash(0)
	assert.Equal(t, DefaultHashDimensions, p.Dimensions())

	out, err := p.Embed(context.Background(), []string{"normalize me"})
	require.NoError(t, err)

	var sum float64
	for _, v := range out[0] {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
}

func TestHashEmptyInput(t *testing.T) {
	p := NewHash(0)
	out, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
