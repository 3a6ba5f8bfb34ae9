package collector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetr/coderag/pkg/types"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func byPath(docs []types.Document) map[string]types.Document {
	m := make(map[string]types.Document, len(docs))
	for _, d := range docs {
		m[d.Path] = d
	}
	return m
}

func TestCollectRootNotFound(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "missing"), Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRootNotFound)
}

func TestCollectLoadsFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("hello\n\nworld"))
	writeFile(t, root, filepath.Join("src", "main.RS"), []byte("fn main() {}\n"))
	writeFile(t, root, "empty", nil)

	docs, err := Collect(root, Config{})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	m := byPath(docs)

	a, ok := m["a.txt"]
	require.True(t, ok)
	assert.Equal(t, "hello\n\nworld", a.Text)
	assert.Equal(t, "txt", a.Ext)
	assert.Equal(t, int64(12), a.Size)
	assert.Equal(t, types.ComputeDocumentID("a.txt", a.Text), a.ID)

	// Paths are root-relative with slash separators; extensions are
	// lowercase without the leading dot.
	rs, ok := m["src/main.RS"]
	require.True(t, ok)
	assert.False(t, strings.Contains(rs.Path, "\\"))
	assert.Equal(t, "rs", rs.Ext)

	empty, ok := m["empty"]
	require.True(t, ok)
	assert.Equal(t, "", empty.Ext)
	assert.Equal(t, int64(0), empty.Size)
}

func TestCollectDropsInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.txt", []byte("fine"))
	writeFile(t, root, "bad.bin", []byte{0xff, 0xfe, 0x00, 0x80})

	docs, err := Collect(root, Config{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good.txt", docs[0].Path)
}

func TestCollectMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", []byte("ok"))
	writeFile(t, root, "big.txt", []byte(strings.Repeat("x", 100)))

	docs, err := Collect(root, Config{MaxFileSize: 10})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "small.txt", docs[0].Path)
}

func TestCollectDeterministicIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("alpha"))
	writeFile(t, root, filepath.Join("nested", "b.txt"), []byte("beta"))

	first, err := Collect(root, Config{Workers: 4})
	require.NoError(t, err)
	second, err := Collect(root, Config{Workers: 1})
	require.NoError(t, err)

	// Ordering is not guaranteed; the set of IDs is.
	ids := func(docs []types.Document) map[types.DocumentID]bool {
		set := make(map[types.DocumentID]bool)
		for _, d := range docs {
			set[d.ID] = true
		}
		return set
	}
	assert.Equal(t, ids(first), ids(second))
}

func BenchmarkCollect(b *testing.B) {
	root := b.TempDir()
	for i := 0; i < 50; i++ {
		path := filepath.Join(root, "dir", "file"+string(rune('a'+i%26))+".txt")
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		_ = os.WriteFile(path, []byte(strings.Repeat("lorem ipsum\n\n", 64)), 0o644)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Collect(root, Config{}); err != nil {
			b.Fatal(err)
		}
	}
}
