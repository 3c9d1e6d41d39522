package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/retailcopilot/rag"
)

func chunk(id, text string) rag.Chunk {
	return rag.Chunk{
		ID:     id,
		Source: id + ".md",
		Text:   text,
		Tokens: rag.Tokenize(text),
	}
}

func testChunks() []rag.Chunk {
	return []rag.Chunk{
		chunk("calendar::chunk0", "Summer Beverages 1997 campaign runs in June"),
		chunk("calendar::chunk1", "Winter Classics features dairy products and confections"),
		chunk("policy::chunk0", "Beverages unopened may be returned within 7 days"),
		chunk("policy::chunk1", "Seafood is not returnable"),
	}
}

func TestBM25Retriever(t *testing.T) {
	r := NewBM25Retriever(testChunks())

	t.Run("relevant chunk ranks first", func(t *testing.T) {
		results := r.Retrieve("unopened beverages returned days", 4)
		require.NotEmpty(t, results)
		assert.Equal(t, "policy::chunk0", results[0].ChunkID)
	})

	t.Run("at most k results", func(t *testing.T) {
		assert.Len(t, r.Retrieve("beverages", 2), 2)
		assert.Len(t, r.Retrieve("beverages", 100), 4)
	})

	t.Run("scores are non-increasing", func(t *testing.T) {
		results := r.Retrieve("summer beverages campaign", 4)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("deterministic ordering", func(t *testing.T) {
		first := r.Retrieve("beverages winter", 4)
		second := r.Retrieve("beverages winter", 4)
		assert.Equal(t, first, second)
	})

	t.Run("ties broken by insertion order", func(t *testing.T) {
		// No chunk matches, so every score is zero and the original chunk
		// order must be preserved.
		results := r.Retrieve("zzz qqq", 4)
		require.Len(t, results, 4)
		assert.Equal(t, "calendar::chunk0", results[0].ChunkID)
		assert.Equal(t, "calendar::chunk1", results[1].ChunkID)
		assert.Equal(t, "policy::chunk0", results[2].ChunkID)
		assert.Equal(t, "policy::chunk1", results[3].ChunkID)
	})

	t.Run("empty corpus yields empty result", func(t *testing.T) {
		empty := NewBM25Retriever(nil)
		assert.Empty(t, empty.Retrieve("anything", 5))
	})

	t.Run("non-positive k yields empty result", func(t *testing.T) {
		assert.Empty(t, r.Retrieve("beverages", 0))
	})
}
