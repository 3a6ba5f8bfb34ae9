// Package collector discovers and loads source documents from a directory
// tree. Per-file failures are logged and skipped; only a missing root fails
// the whole collection.
package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/spetr/coderag/pkg/types"
)

var errNotUTF8 = errors.New("content is not valid UTF-8")

// Config contains collector options.
type Config struct {
	Workers     int   // parallel file loads; defaults to NumCPU
	MaxFileSize int64 // bytes; 0 means no limit
}

// Collect walks root recursively and loads every regular file as a UTF-8
// document. The returned slice has no ordering guarantee; callers that need
// reproducible output should sort by ID.
func Collect(root string, cfg Config) ([]types.Document, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}

	var relPaths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			slog.Warn("skipping entry outside root", "path", path, "error", err)
			return nil
		}
		relPaths = append(relPaths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu   sync.Mutex
		docs = make([]types.Document, 0, len(relPaths))
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, rel := range relPaths {
		rel := rel
		g.Go(func() error {
			doc, err := loadDocument(root, rel, cfg.MaxFileSize)
			if err != nil {
				slog.Warn("dropping file", "path", rel, "error", err)
				return nil
			}
			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers absorb their own failures

	return docs, nil
}

// loadDocument reads one file and derives its identity. The stored path is
// root-relative with slash separators so identity is platform-independent.
func loadDocument(root, rel string, maxSize int64) (types.Document, error) {
	raw, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return types.Document{}, fmt.Errorf("read: %w", err)
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return types.Document{}, fmt.Errorf("file too large: %d > %d bytes", len(raw), maxSize)
	}
	if !utf8.Valid(raw) {
		return types.Document{}, errNotUTF8
	}

	relSlash := filepath.ToSlash(rel)
	text := string(raw)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(rel)), ".")

	return types.Document{
		ID:   types.ComputeDocumentID(relSlash, text),
		Path: relSlash,
		Text: text,
		Ext:  ext,
		Size: int64(len(raw)),
	}, nil
}
