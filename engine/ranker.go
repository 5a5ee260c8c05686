package engine

import (
	"sort"

	"github.com/stratuspay/vecstore/distance"
	"github.com/stratuspay/vecstore/model"
)

// RankOptions controls thresholding, truncation and payload masking.
type RankOptions struct {
	// Threshold is the minimum acceptable cosine similarity.
	Threshold float32

	// TopK is the maximum number of results to return.
	TopK int

	// IncludeMetadata and IncludeEmbeddings affect payload shape only,
	// never the ranking or filtering decisions.
	IncludeMetadata   bool
	IncludeEmbeddings bool
}

// Rank scores candidates against the query embedding and produces the
// ordered result list, in this exact order: score, threshold, sort,
// truncate, mask.
//
// Every candidate's dimensionality must equal len(query); the service
// layer enforces that before ranking begins. Ties are broken by
// insertion sequence (oldest first), so identical inputs always yield
// byte-identical output. A fresh call recomputes from scratch; there
// is no cursor or resume state.
func Rank(candidates []model.Record, query []float32, opts RankOptions) []model.ScoredResult {
	type scored struct {
		rec model.Record
		sim float32
	}

	kept := make([]scored, 0, len(candidates))
	for _, rec := range candidates {
		sim := distance.CosineSimilarity(query, rec.Embedding)
		if sim < opts.Threshold {
			continue
		}
		kept = append(kept, scored{rec: rec, sim: sim})
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].sim != kept[j].sim {
			return kept[i].sim > kept[j].sim
		}
		return kept[i].rec.Seq < kept[j].rec.Seq
	})

	if opts.TopK > 0 && len(kept) > opts.TopK {
		kept = kept[:opts.TopK]
	}

	results := make([]model.ScoredResult, len(kept))
	for i, s := range kept {
		results[i] = model.ScoredResult{
			ID:         s.rec.ID,
			Similarity: s.sim,
			Document:   s.rec.Document,
			Model:      s.rec.Model,
		}
		if opts.IncludeMetadata {
			results[i].Metadata = s.rec.Metadata
		}
		if opts.IncludeEmbeddings {
			results[i].Embedding = s.rec.Embedding
		}
	}
	return results
}
