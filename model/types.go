package model

import (
	"time"

	"github.com/stratuspay/vecstore/metadata"
)

// DefaultNamespace is used when a request omits the namespace.
const DefaultNamespace = "default"

// Record is the stored unit: one embedded document within a namespace.
type Record struct {
	// ID is unique within a (tenant, namespace) pair.
	ID string `json:"vector_id"`

	// Namespace is the partition key.
	Namespace string `json:"namespace"`

	// Embedding is the vector; len(Embedding) == Dimensions always
	// holds for any record that exists in the store.
	Embedding []float32 `json:"embedding"`

	// Dimensions is the declared dimensionality.
	Dimensions int `json:"dimensions"`

	// Document is the original source text, stored verbatim.
	Document string `json:"document"`

	// Metadata is stored as submitted and returned unmodified.
	Metadata metadata.Document `json:"metadata,omitempty"`

	// Model names the embedding model that produced Embedding. It is
	// stored for transparency and never validated against other
	// records; keeping one model per namespace is the caller's job.
	Model string `json:"model"`

	// CreatedAt and UpdatedAt are set by the store, never by callers.
	// CreatedAt survives updates; UpdatedAt is refreshed on each one.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Seq is the partition-local insertion sequence number. It is
	// assigned once at create time, survives in-place updates, and
	// provides the deterministic tie-break for equal similarities.
	Seq uint32 `json:"seq"`
}

// Clone returns a deep copy of the record.
//
// Snapshots hand out clones so no caller ever holds a mutable
// reference into the store.
func (r Record) Clone() Record {
	c := r
	if r.Embedding != nil {
		c.Embedding = make([]float32, len(r.Embedding))
		copy(c.Embedding, r.Embedding)
	}
	c.Metadata = r.Metadata.Clone()
	return c
}

// WriteOutcome reports how an upsert resolved.
type WriteOutcome int

const (
	// OutcomeCreated means a new record was inserted.
	OutcomeCreated WriteOutcome = iota
	// OutcomeUpdated means an existing record was replaced in place.
	OutcomeUpdated
)

func (o WriteOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// ScoredResult is one ranked search hit.
type ScoredResult struct {
	// ID is the matching record's vector id.
	ID string `json:"vector_id"`

	// Similarity is the cosine similarity against the query embedding.
	Similarity float32 `json:"similarity"`

	// Document is the stored source text.
	Document string `json:"document"`

	// Model names the embedding model of the stored record.
	Model string `json:"model"`

	// Metadata is populated only when the search asked for it.
	Metadata metadata.Document `json:"metadata,omitempty"`

	// Embedding is populated only when the search asked for it.
	Embedding []float32 `json:"embedding,omitempty"`
}
