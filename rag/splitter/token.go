// Package splitter converts corpus documents into retrieval chunks.
package splitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/smallnest/retailcopilot/rag"
)

// DefaultChunkSize is the maximum number of tokens per chunk.
const DefaultChunkSize = 80

// ParagraphTokenSplitter splits a document into paragraphs (maximal runs of
// text without a line break), then slices each paragraph into windows of at
// most ChunkSize whitespace tokens. Each window becomes one chunk with an ID
// of the form "<source base name>::chunk<N>", N counted per source file.
type ParagraphTokenSplitter struct {
	chunkSize int
}

// ParagraphTokenSplitterOption configures the ParagraphTokenSplitter
type ParagraphTokenSplitterOption func(*ParagraphTokenSplitter)

// WithChunkSize sets the maximum tokens per chunk
func WithChunkSize(size int) ParagraphTokenSplitterOption {
	return func(s *ParagraphTokenSplitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// NewParagraphTokenSplitter creates a new ParagraphTokenSplitter
func NewParagraphTokenSplitter(opts ...ParagraphTokenSplitterOption) *ParagraphTokenSplitter {
	s := &ParagraphTokenSplitter{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SplitDocuments splits all documents into chunks, preserving document order
func (s *ParagraphTokenSplitter) SplitDocuments(docs []rag.Document) []rag.Chunk {
	var chunks []rag.Chunk

	for _, doc := range docs {
		base := strings.TrimSuffix(doc.Source, filepath.Ext(doc.Source))
		counter := 0

		for _, para := range paragraphs(doc.Content) {
			tokens := strings.Fields(para)
			for start := 0; start < len(tokens); start += s.chunkSize {
				end := start + s.chunkSize
				if end > len(tokens) {
					end = len(tokens)
				}

				text := strings.Join(tokens[start:end], " ")
				chunks = append(chunks, rag.Chunk{
					ID:     fmt.Sprintf("%s::chunk%d", base, counter),
					Source: doc.Source,
					Text:   text,
					Tokens: rag.Tokenize(text),
				})
				counter++
			}
		}
	}

	return chunks
}

// paragraphs returns the non-empty lines of content, trimmed
func paragraphs(content string) []string {
	var result []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}
