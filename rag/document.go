// Package rag defines the document, chunk and retrieval types shared by the
// corpus loader, splitter and retriever.
package rag

import (
	"context"
	"strings"
)

// Document is a raw corpus file: its filename and full text content.
type Document struct {
	// Source is the filename the content was loaded from, kept for citations.
	Source string

	// Content is the raw document text.
	Content string
}

// Chunk is a bounded window of tokens extracted from a source document.
// It is the unit of retrieval. Chunks are created once at index-build time
// and never mutated afterwards.
type Chunk struct {
	// ID is a stable identifier of the form "<source base name>::chunk<N>",
	// where N is a zero-based counter local to the source file.
	ID string

	// Source is the filename the chunk was extracted from.
	Source string

	// Text is the chunk content.
	Text string

	// Tokens is the lowercased whitespace tokenization of Text, precomputed
	// for scoring.
	Tokens []string
}

// SearchResult is a query-scored view over a Chunk. The score is specific to
// one query and is not persisted on the chunk.
type SearchResult struct {
	ChunkID string
	Source  string
	Text    string
	Score   float64
}

// Loader loads corpus documents in a deterministic order.
type Loader interface {
	Load(ctx context.Context) ([]Document, error)
}

// Splitter turns documents into retrieval chunks.
type Splitter interface {
	SplitDocuments(docs []Document) []Chunk
}

// Retriever ranks indexed chunks against a query.
type Retriever interface {
	Retrieve(query string, k int) []SearchResult
}

// Tokenize lowercases text and splits it on whitespace. No stemming, no
// stop-word removal: scoring and indexing must agree on this exact scheme.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
