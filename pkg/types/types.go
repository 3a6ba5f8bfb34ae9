// Package types contains shared data types used across the coderag project.
package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// ID is a 256-bit content address. It is a pure function of observable
// content: no counters, no randomness, no timestamps. Byte-identical inputs
// produce byte-identical IDs across runs.
type ID [32]byte

// DocumentID identifies a document by Hash(relative path || full text).
type DocumentID = ID

// ChunkID identifies a chunk by Hash(document id || trimmed chunk text).
type ChunkID = ID

// HashID computes the content address over context || content.
func HashID(context, content []byte) ID {
	h := sha256.New()
	h.Write(context)
	h.Write(content)
	var id ID
	copy(id[:], h.Sum(nil))
	return id
}

// ComputeDocumentID derives the identity of a document from its
// root-relative path and full text.
func ComputeDocumentID(relPath, text string) DocumentID {
	return HashID([]byte(relPath), []byte(text))
}

// ComputeChunkID derives the identity of a chunk from its owning document
// and its trimmed text.
func ComputeChunkID(docID DocumentID, text string) ChunkID {
	return HashID(docID[:], []byte(text))
}

// String returns the hex encoding of the ID.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Less reports whether id sorts before other. IDs are comparable byte
// sequences, so this gives callers a total order for reproducible output.
func (id ID) Less(other ID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// Document represents a single collected source file. Documents are created
// once by the collector and never mutated.
type Document struct {
	ID   DocumentID
	Path string // root-relative, slash-separated
	Text string // full file content, valid UTF-8
	Ext  string // lowercase extension without the leading dot
	Size int64  // byte length of the raw file
}

// Sentinel chunk types used when no grammar node kind applies.
const (
	ChunkTypeParagraph = "paragraph" // naive blank-line split segment
	ChunkTypeDocument  = "document"  // whole-document fallback
)

// Chunk is a content-addressed fragment of a document's text, tagged with
// the tree-sitter node kind it was extracted from (or a sentinel type).
type Chunk struct {
	ID        ChunkID
	DocID     DocumentID // owning document; validated by lookup, not by type
	Text      string     // trimmed source span
	ChunkType string     // node kind, "paragraph" or "document"
	CharCount int        // byte length of the untrimmed source span
}
