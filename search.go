// Package vecstore provides an embedded multi-tenant vector store.
//
// This file implements a fluent search API for querying Service instances.
package vecstore

import (
	"context"

	"github.com/stratuspay/vecstore/model"
)

// Query creates a new fluent search builder scoped to a namespace.
// An empty namespace resolves to "default".
//
// Example:
//
//	results, err := svc.Query("tenant-a").
//	    Text("revenue report", "local-384").
//	    TopK(10).
//	    Threshold(0.25).
//	    Execute(ctx)
func (s *Service) Query(namespace string) *SearchBuilder {
	return &SearchBuilder{
		svc: s,
		req: SearchRequest{
			Namespace: namespace,
		},
	}
}

// SearchBuilder is a fluent builder for constructing search queries.
type SearchBuilder struct {
	svc *Service
	req SearchRequest
}

// Text searches by embedding the given text with the configured
// generator.
func (sb *SearchBuilder) Text(query, model string) *SearchBuilder {
	sb.req.Query = query
	sb.req.Model = model
	return sb
}

// Vector searches with an explicit query embedding, skipping the
// generator.
func (sb *SearchBuilder) Vector(embedding []float32) *SearchBuilder {
	sb.req.QueryEmbedding = embedding
	return sb
}

// TopK sets the maximum number of results to return (1..100).
func (sb *SearchBuilder) TopK(k int) *SearchBuilder {
	sb.req.TopK = k
	return sb
}

// Threshold sets the minimum acceptable similarity.
func (sb *SearchBuilder) Threshold(t float32) *SearchBuilder {
	sb.req.Threshold = t
	return sb
}

// Filter sets a metadata filter expression. All conditions must hold.
func (sb *SearchBuilder) Filter(expr map[string]any) *SearchBuilder {
	sb.req.Filter = expr
	return sb
}

// IncludeMetadata controls metadata in result payloads. The default is
// true.
func (sb *SearchBuilder) IncludeMetadata(include bool) *SearchBuilder {
	sb.req.IncludeMetadata = &include
	return sb
}

// IncludeEmbeddings controls raw embeddings in result payloads. The
// default is false.
func (sb *SearchBuilder) IncludeEmbeddings(include bool) *SearchBuilder {
	sb.req.IncludeEmbeddings = include
	return sb
}

// Execute runs the search and returns the results.
func (sb *SearchBuilder) Execute(ctx context.Context) ([]model.ScoredResult, error) {
	return sb.svc.Search(ctx, sb.req)
}

// MustExecute runs the search, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (sb *SearchBuilder) MustExecute(ctx context.Context) []model.ScoredResult {
	results, err := sb.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return results
}

// First returns only the best result, or ErrNotFound if nothing
// qualifies.
func (sb *SearchBuilder) First(ctx context.Context) (model.ScoredResult, error) {
	sb.req.TopK = 1
	results, err := sb.Execute(ctx)
	if err != nil {
		return model.ScoredResult{}, err
	}
	if len(results) == 0 {
		return model.ScoredResult{}, ErrNotFound
	}
	return results[0], nil
}

// Count executes the search and returns the number of results.
func (sb *SearchBuilder) Count(ctx context.Context) (int, error) {
	results, err := sb.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// Exists checks if at least one result matches the search.
func (sb *SearchBuilder) Exists(ctx context.Context) (bool, error) {
	sb.req.TopK = 1
	results, err := sb.Execute(ctx)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}
