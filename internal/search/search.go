// Package search resolves text queries against a built index.
package search

import (
	"context"
	"fmt"

	"github.com/spetr/coderag/internal/embedder"
	"github.com/spetr/coderag/internal/vectorindex"
	"github.com/spetr/coderag/pkg/types"
)

// DefaultLimit is the result count used when the caller passes k <= 0.
const DefaultLimit = 10

// Engine embeds queries and resolves hits back to chunks.
type Engine struct {
	index     *vectorindex.Index
	embedding embedder.Provider
}

// Result is one resolved search hit.
type Result struct {
	Chunk *types.Chunk
	Score float32
}

// New creates a search engine over a built index.
func New(index *vectorindex.Index, embedding embedder.Provider) *Engine {
	return &Engine{index: index, embedding: embedding}
}

// Search embeds the query text and returns the top k chunks by cosine
// similarity.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultLimit
	}

	vecs, err := e.embedding.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits := e.index.Search(vecs[0], k)

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		chunk, err := e.index.Retrieve(hit.Index)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Chunk: chunk, Score: hit.Score})
	}
	return results, nil
}
