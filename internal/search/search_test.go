package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetr/coderag/internal/embedder"
	"github.com/spetr/coderag/internal/vectorindex"
	"github.com/spetr/coderag/pkg/types"
)

func buildIndex(t *testing.T, provider embedder.Provider, texts ...string) *vectorindex.Index {
	t.Helper()

	docID := types.ComputeDocumentID("doc.txt", "doc")
	chunks := make([]types.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = types.Chunk{
			ID:        types.ComputeChunkID(docID, text),
			DocID:     docID,
			Text:      text,
			ChunkType: types.ChunkTypeParagraph,
			CharCount: len(text),
		}
	}

	embeddings, err := provider.Embed(context.Background(), texts)
	require.NoError(t, err)

	idx, err := vectorindex.New(chunks, embeddings)
	require.NoError(t, err)
	return idx
}

func TestSearchExactTextMatchesFirst(t *testing.T) {
	provider := embedder.NewHash(64)
	idx := buildIndex(t, provider, "alpha beta", "gamma delta", "epsilon zeta")

	engine := New(idx, provider)

	// The hash provider maps identical text to identical vectors, so
	// querying with a chunk's exact text must rank that chunk first.
	results, err := engine.Search(context.Background(), "gamma delta", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "gamma delta", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchLimitAndDefault(t *testing.T) {
	provider := embedder.NewHash(32)
	idx := buildIndex(t, provider, "a", "b", "c", "d")

	engine := New(idx, provider)

	results, err := engine.Search(context.Background(), "a", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// k <= 0 falls back to the default limit; more than stored returns all.
	results, err = engine.Search(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Len(t, results, 4)

	results, err = engine.Search(context.Background(), "a", 100)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}
