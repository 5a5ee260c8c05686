package vecstore

import (
	"context"
	"fmt"
	"time"

	"github.com/stratuspay/vecstore/audit"
	"github.com/stratuspay/vecstore/embedding"
	"github.com/stratuspay/vecstore/engine"
	"github.com/stratuspay/vecstore/metadata"
	"github.com/stratuspay/vecstore/model"
)

// Service is the vector store façade: validation, upsert resolution,
// filtering, ranking and the audit/metrics/logging boundaries behind a
// single API.
type Service struct {
	store     engine.Store
	resolver  *engine.Resolver
	generator embedding.Generator
	recorder  audit.Recorder
	metrics   MetricsCollector
	logger    *Logger
	clock     func() time.Time
}

// New creates a Service. With no options it uses an in-memory store,
// no embedding generator, and noop audit/metrics/logging.
func New(optFns ...Option) *Service {
	opts := applyOptions(optFns)

	resolverOpts := []engine.ResolverOption{engine.WithClock(opts.clock)}
	if opts.idGenerator != nil {
		resolverOpts = append(resolverOpts, engine.WithIDGenerator(opts.idGenerator))
	}

	return &Service{
		store:     opts.store,
		resolver:  engine.NewResolver(opts.store, resolverOpts...),
		generator: opts.generator,
		recorder:  opts.recorder,
		metrics:   opts.metricsCollector,
		logger:    opts.logger,
		clock:     opts.clock,
	}
}

// UpsertRequest describes one write.
type UpsertRequest struct {
	// Namespace scopes the write. Empty resolves to "default".
	Namespace string

	// ID identifies the record. Empty means generate one.
	ID string

	// Document is the source text.
	Document string

	// Embedding is the vector to store. When nil, the service embeds
	// Document with the configured generator.
	Embedding []float32

	// Dimensions is the declared dimensionality. When Embedding is
	// generated and Dimensions is zero, the generator's output
	// dimensionality is adopted.
	Dimensions int

	// Model names the embedding model the vector came from.
	Model string

	// Metadata is stored as submitted. Nil becomes an empty map.
	Metadata map[string]any

	// Upsert controls the collision behavior: true updates an existing
	// id in place, false rejects it.
	Upsert bool
}

// Upsert validates and applies one write, returning the stored record.
//
// All validation happens before any mutation: a rejected write leaves
// the store untouched. On an update the record's created_at survives
// and updated_at is refreshed.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (model.Record, error) {
	start := time.Now()
	rec, outcome, err := s.upsert(ctx, req)
	s.metrics.RecordUpsert(time.Since(start), err)
	s.logger.LogUpsert(ctx, req.Namespace, req.ID, outcome, err)
	return rec, err
}

func (s *Service) upsert(ctx context.Context, req UpsertRequest) (model.Record, string, error) {
	namespace := req.Namespace
	if namespace == "" {
		namespace = model.DefaultNamespace
	}
	if err := engine.ValidateNamespace(namespace); err != nil {
		return model.Record{}, "", translateError(err)
	}

	doc, err := metadata.DocumentFromAny(req.Metadata)
	if err != nil {
		return model.Record{}, "", fmt.Errorf("metadata: %w", err)
	}

	vector := req.Embedding
	dims := req.Dimensions
	if vector == nil {
		// Embedding generation happens before any lock is taken.
		v, d, err := s.embed(ctx, req.Document, req.Model)
		if err != nil {
			return model.Record{}, "", err
		}
		vector = v
		if dims == 0 {
			dims = d
		}
	}

	if err := engine.ValidateVector(dims, vector); err != nil {
		return model.Record{}, "", translateError(err)
	}

	rec := model.Record{
		ID:         req.ID,
		Namespace:  namespace,
		Embedding:  vector,
		Dimensions: dims,
		Document:   req.Document,
		Metadata:   doc,
		Model:      req.Model,
	}

	stored, outcome, err := s.resolver.Resolve(namespace, rec, req.Upsert)
	if err != nil {
		err = translateError(err)
		s.record(ctx, namespace, rec.ID, audit.OpUpsert, Kind(err))
		return model.Record{}, "", err
	}

	s.record(ctx, namespace, stored.ID, audit.OpUpsert, outcome.String())
	return stored, outcome.String(), nil
}

// Get returns the record stored under (namespace, id).
func (s *Service) Get(ctx context.Context, namespace, id string) (model.Record, error) {
	if namespace == "" {
		namespace = model.DefaultNamespace
	}
	if err := engine.ValidateNamespace(namespace); err != nil {
		return model.Record{}, translateError(err)
	}

	rec, found, err := s.store.Get(namespace, id)
	if err != nil {
		return model.Record{}, translateError(err)
	}
	if !found {
		return model.Record{}, fmt.Errorf("%w: id %q in namespace %q", ErrNotFound, id, namespace)
	}
	return rec, nil
}

// Delete removes the record stored under (namespace, id). Deleting a
// missing id returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, namespace, id string) error {
	start := time.Now()
	err := s.delete(ctx, namespace, id)
	s.metrics.RecordDelete(time.Since(start), err)
	s.logger.LogDelete(ctx, namespace, id, err)
	return err
}

func (s *Service) delete(ctx context.Context, namespace, id string) error {
	if namespace == "" {
		namespace = model.DefaultNamespace
	}
	if err := engine.ValidateNamespace(namespace); err != nil {
		return translateError(err)
	}

	removed, err := s.store.Delete(namespace, id)
	if err != nil {
		return translateError(err)
	}
	if !removed {
		err := fmt.Errorf("%w: id %q in namespace %q", ErrNotFound, id, namespace)
		s.record(ctx, namespace, id, audit.OpDelete, Kind(err))
		return err
	}

	s.record(ctx, namespace, id, audit.OpDelete, "deleted")
	return nil
}

// SearchRequest describes one search.
type SearchRequest struct {
	// Namespace scopes the search. Empty resolves to "default".
	Namespace string

	// Query is the text to embed and search for. Ignored when
	// QueryEmbedding is set.
	Query string

	// QueryEmbedding searches with an explicit vector, skipping the
	// embedding generator.
	QueryEmbedding []float32

	// Model names the embedding model for text queries.
	Model string

	// TopK is the maximum number of results (1..100). Zero means 10.
	TopK int

	// Threshold is the minimum acceptable similarity. The zero value
	// admits every candidate with non-negative similarity.
	Threshold float32

	// Filter is a metadata filter expression ($-operator syntax).
	// All conditions must hold (AND semantics). Nil matches everything.
	Filter map[string]any

	// IncludeMetadata controls metadata in result payloads. Nil means
	// true.
	IncludeMetadata *bool

	// IncludeEmbeddings controls raw embeddings in result payloads.
	IncludeEmbeddings bool
}

// Search runs one semantic search: embed (for text queries), filter,
// score, rank.
//
// Given an unchanged store and identical inputs, Search returns
// identical ordering and scores on every call.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]model.ScoredResult, error) {
	start := time.Now()
	results, err := s.search(ctx, req)
	s.metrics.RecordSearch(req.TopK, time.Since(start), err)
	s.logger.LogSearch(ctx, req.Namespace, req.TopK, len(results), err)
	return results, err
}

func (s *Service) search(ctx context.Context, req SearchRequest) ([]model.ScoredResult, error) {
	namespace := req.Namespace
	if namespace == "" {
		namespace = model.DefaultNamespace
	}
	if err := engine.ValidateNamespace(namespace); err != nil {
		return nil, translateError(err)
	}

	topK := req.TopK
	if topK == 0 {
		topK = 10
	}
	if topK < 1 || topK > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, req.TopK)
	}

	var fs *metadata.FilterSet
	if req.Filter != nil {
		parsed, err := metadata.ParseFilter(req.Filter)
		if err != nil {
			return nil, translateError(err)
		}
		fs = parsed
	}

	query := req.QueryEmbedding
	if query == nil {
		v, _, err := s.embed(ctx, req.Query, req.Model)
		if err != nil {
			return nil, err
		}
		query = v
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query embedding", ErrEmptyVector)
	}

	candidates, err := s.store.Candidates(namespace, fs)
	if err != nil {
		return nil, translateError(err)
	}

	// Dimensionality is uniform after filtering or the query is
	// malformed for this namespace; reject rather than silently skip.
	for _, c := range candidates {
		if c.Dimensions != len(query) {
			return nil, &ErrDimensionMismatch{Expected: c.Dimensions, Actual: len(query)}
		}
	}

	includeMetadata := true
	if req.IncludeMetadata != nil {
		includeMetadata = *req.IncludeMetadata
	}

	return engine.Rank(candidates, query, engine.RankOptions{
		Threshold:         req.Threshold,
		TopK:              topK,
		IncludeMetadata:   includeMetadata,
		IncludeEmbeddings: req.IncludeEmbeddings,
	}), nil
}

// List returns every record in the namespace in insertion order.
func (s *Service) List(ctx context.Context, namespace string) ([]model.Record, error) {
	if namespace == "" {
		namespace = model.DefaultNamespace
	}
	if err := engine.ValidateNamespace(namespace); err != nil {
		return nil, translateError(err)
	}
	recs, err := s.store.Snapshot(namespace)
	return recs, translateError(err)
}

// Count returns the number of records in the namespace.
func (s *Service) Count(ctx context.Context, namespace string) (int, error) {
	if namespace == "" {
		namespace = model.DefaultNamespace
	}
	if err := engine.ValidateNamespace(namespace); err != nil {
		return 0, translateError(err)
	}
	n, err := s.store.Count(namespace)
	return n, translateError(err)
}

// Namespaces returns the names of all namespaces that have been
// written to, sorted.
func (s *Service) Namespaces(ctx context.Context) ([]string, error) {
	names, err := s.store.Namespaces()
	return names, translateError(err)
}

// Store exposes the backing store for snapshot tooling.
func (s *Service) Store() engine.Store {
	return s.store
}

func (s *Service) embed(ctx context.Context, text, modelName string) ([]float32, int, error) {
	if s.generator == nil {
		return nil, 0, ErrNoGenerator
	}
	start := time.Now()
	vector, dims, err := s.generator.Embed(ctx, text, modelName)
	s.metrics.RecordEmbed(time.Since(start), err)
	s.logger.LogEmbed(ctx, modelName, dims, err)
	if err != nil {
		return nil, 0, fmt.Errorf("embedding generation: %w", err)
	}
	return vector, dims, nil
}

func (s *Service) record(ctx context.Context, namespace, id string, op audit.Operation, outcome string) {
	ev := audit.Event{
		Namespace: namespace,
		VectorID:  id,
		Operation: op,
		Outcome:   outcome,
		At:        s.clock(),
	}
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.LogAuditFailure(ctx, namespace, id, err)
	}
}
