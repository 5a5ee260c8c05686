package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratuspay/vecstore/metadata"
	"github.com/stratuspay/vecstore/model"
)

func vec(dims int, values ...float32) []float32 {
	v := make([]float32, dims)
	copy(v, values)
	return v
}

func scoredRecord(id string, seq uint32, embedding []float32) model.Record {
	return model.Record{
		ID:         id,
		Seq:        seq,
		Embedding:  embedding,
		Dimensions: len(embedding),
		Document:   "doc " + id,
		Metadata:   metadata.Document{"id": metadata.String(id)},
	}
}

func TestRankOrdering(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := []model.Record{
		scoredRecord("orthogonal", 0, []float32{0, 1, 0}),
		scoredRecord("exact", 1, []float32{2, 0, 0}),
		scoredRecord("close", 2, []float32{1, 1, 0}),
	}

	results := Rank(candidates, query, RankOptions{TopK: 10})
	require.Len(t, results, 3)
	assert.Equal(t, "exact", results[0].ID)
	assert.Equal(t, "close", results[1].ID)
	assert.Equal(t, "orthogonal", results[2].ID)

	for i := 0; i+1 < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Similarity, results[i+1].Similarity)
	}
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
}

func TestRankTieBreakBySequence(t *testing.T) {
	query := []float32{1, 0}
	// Identical embeddings, inserted in reverse-alphabetical order.
	candidates := []model.Record{
		scoredRecord("second", 5, []float32{1, 0}),
		scoredRecord("first", 2, []float32{1, 0}),
		scoredRecord("third", 9, []float32{1, 0}),
	}

	results := Rank(candidates, query, RankOptions{TopK: 10})
	require.Len(t, results, 3)
	// Oldest insertion wins the tie.
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
	assert.Equal(t, "third", results[2].ID)
}

func TestRankThreshold(t *testing.T) {
	query := []float32{1, 0}
	candidates := []model.Record{
		scoredRecord("hit-a", 0, []float32{1, 0}),       // sim 1.0
		scoredRecord("miss", 1, []float32{1, 1}),        // sim ~0.707
		scoredRecord("hit-b", 2, []float32{10, 0.001}), // sim ~1.0
		scoredRecord("anti", 3, []float32{-1, 0}),       // sim -1.0
	}

	results := Rank(candidates, query, RankOptions{Threshold: 0.9, TopK: 10})
	require.Len(t, results, 2)
	assert.Equal(t, "hit-a", results[0].ID)
	assert.Equal(t, "hit-b", results[1].ID)
}

func TestRankTopK(t *testing.T) {
	query := []float32{1, 0}
	var candidates []model.Record
	for i := range 5 {
		candidates = append(candidates, scoredRecord(string(rune('a'+i)), uint32(i), []float32{1, float32(i) * 0.1}))
	}

	t.Run("truncates to top_k", func(t *testing.T) {
		results := Rank(candidates, query, RankOptions{TopK: 2})
		assert.Len(t, results, 2)
	})

	t.Run("top_k larger than candidates is not an error", func(t *testing.T) {
		results := Rank(candidates, query, RankOptions{TopK: 100})
		assert.Len(t, results, 5)
	})

	t.Run("no candidates yields empty result", func(t *testing.T) {
		results := Rank(nil, query, RankOptions{TopK: 10})
		assert.Empty(t, results)
	})
}

func TestRankMasking(t *testing.T) {
	query := []float32{1, 0}
	candidates := []model.Record{scoredRecord("a", 0, []float32{1, 0})}

	t.Run("metadata included, embeddings excluded", func(t *testing.T) {
		results := Rank(candidates, query, RankOptions{TopK: 1, IncludeMetadata: true})
		require.Len(t, results, 1)
		assert.NotNil(t, results[0].Metadata)
		assert.Nil(t, results[0].Embedding)
	})

	t.Run("both included", func(t *testing.T) {
		results := Rank(candidates, query, RankOptions{TopK: 1, IncludeMetadata: true, IncludeEmbeddings: true})
		require.Len(t, results, 1)
		assert.NotNil(t, results[0].Metadata)
		assert.Equal(t, []float32{1, 0}, results[0].Embedding)
	})

	t.Run("both excluded", func(t *testing.T) {
		results := Rank(candidates, query, RankOptions{TopK: 1})
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Metadata)
		assert.Nil(t, results[0].Embedding)
	})
}

func TestRankZeroMagnitude(t *testing.T) {
	// A zero query vector scores 0 against everything; with threshold 0
	// every candidate survives, ordered by insertion.
	query := []float32{0, 0}
	candidates := []model.Record{
		scoredRecord("b", 1, []float32{1, 0}),
		scoredRecord("a", 0, []float32{0, 1}),
	}

	results := Rank(candidates, query, RankOptions{TopK: 10})
	require.Len(t, results, 2)
	assert.Equal(t, float32(0), results[0].Similarity)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
}

func TestRankDeterminism(t *testing.T) {
	query := vec(4, 0.3, 0.1, 0.9, 0.2)
	var candidates []model.Record
	for i := range 50 {
		candidates = append(candidates, scoredRecord(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			uint32(i),
			vec(4, float32(i)*0.01, 0.5, float32(50-i)*0.02, 0.1),
		))
	}

	first := Rank(candidates, query, RankOptions{TopK: 20})
	for range 10 {
		again := Rank(candidates, query, RankOptions{TopK: 20})
		assert.Equal(t, first, again)
	}
}
