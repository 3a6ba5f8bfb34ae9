// Package indexer orchestrates the collect, chunk, embed, index pipeline.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spetr/coderag/internal/chunker"
	"github.com/spetr/coderag/internal/collector"
	"github.com/spetr/coderag/internal/embedder"
	"github.com/spetr/coderag/internal/vectorindex"
)

// Config contains pipeline configuration.
type Config struct {
	Root        string
	Workers     int   // parallel workers for collection and chunking
	MaxFileSize int64 // bytes; 0 means no limit
	Embedding   embedder.Provider
}

// Stats summarizes one indexing run.
type Stats struct {
	Documents int
	Chunks    int
	Duration  time.Duration
}

// Run indexes the tree under cfg.Root and returns a searchable index.
// Per-file and per-document failures are absorbed with warnings; only a
// missing root, an embedding failure or a broken chunk/embedding alignment
// fail the run.
func Run(ctx context.Context, cfg Config) (*vectorindex.Index, Stats, error) {
	start := time.Now()

	docs, err := collector.Collect(cfg.Root, collector.Config{
		Workers:     cfg.Workers,
		MaxFileSize: cfg.MaxFileSize,
	})
	if err != nil {
		return nil, Stats{}, fmt.Errorf("collect: %w", err)
	}
	slog.Info("collected documents", "root", cfg.Root, "count", len(docs))

	chunks, _ := chunker.ChunkAll(docs, cfg.Workers)
	slog.Info("chunking complete", "documents", len(docs), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	embeddings, err := cfg.Embedding.Embed(ctx, texts)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("embed: %w", err)
	}

	idx, err := vectorindex.New(chunks, embeddings)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{
		Documents: len(docs),
		Chunks:    len(chunks),
		Duration:  time.Since(start),
	}
	slog.Info("indexing complete",
		"documents", stats.Documents,
		"chunks", stats.Chunks,
		"provider", cfg.Embedding.Name(),
		"duration", stats.Duration.Round(time.Millisecond),
	)

	return idx, stats, nil
}
