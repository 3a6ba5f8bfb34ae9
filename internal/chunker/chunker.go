// Package chunker splits documents into content-addressed fragments using
// tree-sitter grammars, falling back to paragraph splitting when no grammar
// applies or parsing fails. Chunking is total: every document yields at
// least one chunk, and malformed input degrades quality, never availability.
package chunker

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/spetr/coderag/internal/grammar"
	"github.com/spetr/coderag/pkg/types"
)

// Node kinds treated as the file root for top-level extraction. A match is
// kept only when its immediate parent is one of these; nested declarations
// stay embedded in the text of their enclosing top-level chunk.
var topLevelParents = map[string]struct{}{
	"source_file":      {},
	"module":           {},
	"program":          {},
	"translation_unit": {},
	"document":         {},
}

// ChunkDocument splits a single document into chunks. It is pure and safe
// to call from multiple goroutines on distinct documents.
func ChunkDocument(doc *types.Document) []types.Chunk {
	g, ok := grammar.Lookup(doc.Ext)
	if !ok {
		return naiveChunk(doc)
	}
	return structuredChunk(doc, g)
}

// ChunkAll chunks every document in parallel, concatenates the results and
// builds the id-to-position map in a single pass after all workers finish.
// Cross-document ordering is not stable across runs; ordering within one
// document follows emission order. Duplicate IDs stay in the slice and the
// map aliases to the last occurrence.
func ChunkAll(docs []types.Document, workers int) ([]types.Chunk, map[types.ChunkID]int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	docCh := make(chan *types.Document, len(docs))
	resultCh := make(chan []types.Chunk, len(docs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range docCh {
				resultCh <- ChunkDocument(doc)
			}
		}()
	}

	for i := range docs {
		docCh <- &docs[i]
	}
	close(docCh)

	wg.Wait()
	close(resultCh)

	var chunks []types.Chunk
	for batch := range resultCh {
		chunks = append(chunks, batch...)
	}

	idToIdx := make(map[types.ChunkID]int, len(chunks))
	for i, c := range chunks {
		idToIdx[c.ID] = i
	}

	return chunks, idToIdx
}

// structuredChunk parses the document and extracts top-level declarations,
// container matches first so broad structures precede callables.
func structuredChunk(doc *types.Document, g grammar.Grammar) []types.Chunk {
	parser := sitter.NewParser()
	parser.SetLanguage(g.Language)
	defer parser.Close()

	source := []byte(doc.Text)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		slog.Warn("parse failed, falling back to naive chunking", "path", doc.Path, "error", err)
		return naiveChunk(doc)
	}
	defer tree.Close()

	root := tree.RootNode()

	var chunks []types.Chunk
	chunks = appendQueryMatches(chunks, doc, g.Language, root, source, g.ContainerQuery)
	chunks = appendQueryMatches(chunks, doc, g.Language, root, source, g.FunctionQuery)

	if len(chunks) == 0 {
		return []types.Chunk{documentChunk(doc)}
	}
	return chunks
}

// appendQueryMatches runs one query pattern against the tree and emits a
// chunk per surviving capture.
func appendQueryMatches(chunks []types.Chunk, doc *types.Document, lang *sitter.Language, root *sitter.Node, source []byte, pattern string) []types.Chunk {
	if pattern == "" {
		return chunks
	}

	query, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		// Uncompilable query degrades this pass only, never the document.
		slog.Warn("query compile failed", "path", doc.Path, "error", err)
		return chunks
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		for _, capture := range match.Captures {
			node := capture.Node
			parent := node.Parent()
			if parent == nil {
				continue
			}
			if _, top := topLevelParents[parent.Type()]; !top {
				continue
			}

			raw := node.Content(source)
			text := strings.TrimSpace(raw)
			if text == "" {
				continue
			}

			chunks = append(chunks, types.Chunk{
				ID:        types.ComputeChunkID(doc.ID, text),
				DocID:     doc.ID,
				Text:      text,
				ChunkType: node.Type(),
				CharCount: len(raw),
			})
		}
	}

	return chunks
}

// naiveChunk splits on blank-line boundaries, one chunk per non-empty
// paragraph.
func naiveChunk(doc *types.Document) []types.Chunk {
	var chunks []types.Chunk
	for _, para := range strings.Split(doc.Text, "\n\n") {
		text := strings.TrimSpace(para)
		if text == "" {
			continue
		}
		chunks = append(chunks, types.Chunk{
			ID:        types.ComputeChunkID(doc.ID, text),
			DocID:     doc.ID,
			Text:      text,
			ChunkType: types.ChunkTypeParagraph,
			CharCount: len(para),
		})
	}

	if len(chunks) == 0 {
		return []types.Chunk{documentChunk(doc)}
	}
	return chunks
}

// documentChunk covers the whole trimmed document text. This is the only
// chunk whose text may be empty (an empty file still yields one chunk).
func documentChunk(doc *types.Document) types.Chunk {
	text := strings.TrimSpace(doc.Text)
	return types.Chunk{
		ID:        types.ComputeChunkID(doc.ID, text),
		DocID:     doc.ID,
		Text:      text,
		ChunkType: types.ChunkTypeDocument,
		CharCount: len(doc.Text),
	}
}
