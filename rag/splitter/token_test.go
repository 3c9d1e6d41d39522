package splitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/retailcopilot/rag"
)

func TestParagraphTokenSplitter(t *testing.T) {
	t.Run("one chunk per paragraph", func(t *testing.T) {
		s := NewParagraphTokenSplitter()
		docs := []rag.Document{{
			Source:  "policy.md",
			Content: "First paragraph here.\n\nSecond paragraph here.\n",
		}}

		chunks := s.SplitDocuments(docs)
		assert.Len(t, chunks, 2)
		assert.Equal(t, "policy::chunk0", chunks[0].ID)
		assert.Equal(t, "policy::chunk1", chunks[1].ID)
		assert.Equal(t, "policy.md", chunks[0].Source)
		assert.Equal(t, "First paragraph here.", chunks[0].Text)
	})

	t.Run("long paragraph split into token windows", func(t *testing.T) {
		s := NewParagraphTokenSplitter(WithChunkSize(3))
		docs := []rag.Document{{
			Source:  "doc.md",
			Content: "one two three four five six seven",
		}}

		chunks := s.SplitDocuments(docs)
		assert.Len(t, chunks, 3)
		assert.Equal(t, "one two three", chunks[0].Text)
		assert.Equal(t, "four five six", chunks[1].Text)
		assert.Equal(t, "seven", chunks[2].Text)
		assert.Equal(t, "doc::chunk2", chunks[2].ID)
	})

	t.Run("counter is local to each source file", func(t *testing.T) {
		s := NewParagraphTokenSplitter()
		docs := []rag.Document{
			{Source: "a.md", Content: "alpha"},
			{Source: "b.md", Content: "beta"},
		}

		chunks := s.SplitDocuments(docs)
		assert.Len(t, chunks, 2)
		assert.Equal(t, "a::chunk0", chunks[0].ID)
		assert.Equal(t, "b::chunk0", chunks[1].ID)
	})

	t.Run("tokens are lowercased", func(t *testing.T) {
		s := NewParagraphTokenSplitter()
		chunks := s.SplitDocuments([]rag.Document{{Source: "x.md", Content: "Summer Beverages"}})
		assert.Len(t, chunks, 1)
		assert.Equal(t, []string{"summer", "beverages"}, chunks[0].Tokens)
	})

	t.Run("blank lines produce no chunks", func(t *testing.T) {
		s := NewParagraphTokenSplitter()
		chunks := s.SplitDocuments([]rag.Document{{Source: "x.md", Content: "\n\n  \n"}})
		assert.Empty(t, chunks)
	})
}

func TestParagraphTokenSplitterDeterministic(t *testing.T) {
	var content strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&content, "word%d ", i)
	}

	s := NewParagraphTokenSplitter()
	docs := []rag.Document{{Source: "big.md", Content: content.String()}}

	first := s.SplitDocuments(docs)
	second := s.SplitDocuments(docs)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3) // 200 tokens, windows of 80
}
