// Package retriever implements lexical retrieval over the chunk index.
package retriever

import (
	"math"
	"sort"

	"github.com/smallnest/retailcopilot/rag"
)

// Default Okapi BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// BM25Retriever ranks chunks against a query using the Okapi BM25 relevance
// function. The index is built once from the full chunk set and is read-only
// afterwards; retrieval is deterministic for a fixed corpus and query.
type BM25Retriever struct {
	chunks []rag.Chunk
	k1     float64
	b      float64

	termFreqs []map[string]int
	docFreq   map[string]int
	lengths   []int
	avgLen    float64
}

// BM25Option configures the BM25Retriever
type BM25Option func(*BM25Retriever)

// WithK1 sets the term-frequency saturation parameter
func WithK1(k1 float64) BM25Option {
	return func(r *BM25Retriever) {
		r.k1 = k1
	}
}

// WithB sets the length-normalization parameter
func WithB(b float64) BM25Option {
	return func(r *BM25Retriever) {
		r.b = b
	}
}

// NewBM25Retriever builds the index over the given chunks
func NewBM25Retriever(chunks []rag.Chunk, opts ...BM25Option) *BM25Retriever {
	r := &BM25Retriever{
		chunks:  chunks,
		k1:      DefaultK1,
		b:       DefaultB,
		docFreq: make(map[string]int),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.buildIndex()
	return r
}

// buildIndex precomputes term and document frequencies for every chunk
func (r *BM25Retriever) buildIndex() {
	r.termFreqs = make([]map[string]int, len(r.chunks))
	r.lengths = make([]int, len(r.chunks))

	totalLen := 0
	for i, chunk := range r.chunks {
		freq := make(map[string]int, len(chunk.Tokens))
		for _, token := range chunk.Tokens {
			freq[token]++
		}
		r.termFreqs[i] = freq
		r.lengths[i] = len(chunk.Tokens)
		totalLen += len(chunk.Tokens)

		for token := range freq {
			r.docFreq[token]++
		}
	}

	if len(r.chunks) > 0 {
		r.avgLen = float64(totalLen) / float64(len(r.chunks))
	}
}

// Retrieve returns up to k chunks ranked by BM25 score, highest first.
// Ties are broken by chunk insertion order. An empty index yields an empty
// result for any query.
func (r *BM25Retriever) Retrieve(query string, k int) []rag.SearchResult {
	if len(r.chunks) == 0 || k <= 0 {
		return nil
	}

	queryTokens := rag.Tokenize(query)
	scores := make([]float64, len(r.chunks))
	for i := range r.chunks {
		scores[i] = r.score(queryTokens, i)
	}

	order := make([]int, len(r.chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	results := make([]rag.SearchResult, 0, k)
	for _, idx := range order[:k] {
		chunk := r.chunks[idx]
		results = append(results, rag.SearchResult{
			ChunkID: chunk.ID,
			Source:  chunk.Source,
			Text:    chunk.Text,
			Score:   scores[idx],
		})
	}

	return results
}

// Chunks returns the indexed chunks in insertion order
func (r *BM25Retriever) Chunks() []rag.Chunk {
	return r.chunks
}

// score computes the Okapi BM25 score of chunk idx against the query tokens
func (r *BM25Retriever) score(queryTokens []string, idx int) float64 {
	if r.avgLen == 0 {
		return 0
	}

	score := 0.0
	norm := r.k1 * (1 - r.b + r.b*float64(r.lengths[idx])/r.avgLen)

	for _, token := range queryTokens {
		tf := float64(r.termFreqs[idx][token])
		if tf == 0 {
			continue
		}

		df := float64(r.docFreq[token])
		n := float64(len(r.chunks))
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))

		score += idf * tf * (r.k1 + 1) / (tf + norm)
	}

	return score
}
