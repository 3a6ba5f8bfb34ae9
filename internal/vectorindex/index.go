// Package vectorindex implements exact top-k cosine-similarity search over
// an in-memory, position-aligned chunk and embedding collection.
package vectorindex

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/spetr/coderag/pkg/types"
)

// Hit is one search result: the position of a chunk and its score.
type Hit struct {
	Index int
	Score float32
}

// Index owns the aligned chunk and embedding collections. embeddings[i]
// corresponds to chunks[i] by position. The index is immutable after
// construction.
type Index struct {
	chunks     []types.Chunk
	embeddings [][]float32
	idToIdx    map[types.ChunkID]int
}

// New builds an index over aligned chunks and embeddings. A length mismatch
// is a caller bug and fails immediately with ErrLengthMismatch.
func New(chunks []types.Chunk, embeddings [][]float32) (*Index, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d chunks, %d embeddings", types.ErrLengthMismatch, len(chunks), len(embeddings))
	}

	idToIdx := make(map[types.ChunkID]int, len(chunks))
	for i, c := range chunks {
		idToIdx[c.ID] = i // last writer wins on duplicate IDs
	}

	return &Index{
		chunks:     chunks,
		embeddings: embeddings,
		idToIdx:    idToIdx,
	}, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search scores every stored embedding against query and returns the top k
// hits sorted by non-increasing score. Ties keep original index order so
// results are deterministic. k larger than the collection returns all hits.
func (idx *Index) Search(query []float32, k int) []Hit {
	hits := make([]Hit, len(idx.embeddings))
	if len(hits) == 0 {
		return hits
	}

	// Fork-join scoring over disjoint ranges; no shared writes.
	workers := runtime.NumCPU()
	stride := (len(idx.embeddings) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(idx.embeddings); start += stride {
		end := start + stride
		if end > len(idx.embeddings) {
			end = len(idx.embeddings)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				hits[i] = Hit{Index: i, Score: Cosine(query, idx.embeddings[i])}
			}
		}(start, end)
	}
	wg.Wait()

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < 0 {
		k = 0
	}
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// Retrieve returns the chunk at position i. An out-of-range index is a
// contract violation and is surfaced as ErrInvalidIndex.
func (idx *Index) Retrieve(i int) (*types.Chunk, error) {
	if i < 0 || i >= len(idx.chunks) {
		return nil, fmt.Errorf("%w: %d (have %d chunks)", types.ErrInvalidIndex, i, len(idx.chunks))
	}
	return &idx.chunks[i], nil
}

// Lookup resolves a chunk ID to its position.
func (idx *Index) Lookup(id types.ChunkID) (int, bool) {
	i, ok := idx.idToIdx[id]
	return i, ok
}

// Cosine returns the cosine similarity of a and b. Vectors of different
// lengths and zero-norm vectors score 0 rather than NaN so scores always
// sort cleanly.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
