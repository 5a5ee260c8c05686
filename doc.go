// Package vecstore provides an embedded multi-tenant vector store for Go.
//
// Vecstore supports exact (full-scan) semantic search over namespaced
// in-memory vector records with production-ready features including:
//
//   - Namespace isolation: independent partitions with per-namespace locks
//   - Deterministic ranking: identical inputs always yield identical output
//   - Metadata filtering with a Roaring Bitmap-based inverted index
//   - Upsert resolution with striped per-id write serialization
//   - Pluggable embedding generation (rate-limited, deduplicated)
//   - Append-only audit trail (in-memory or DynamoDB recorders)
//   - Namespace snapshot export/import to memory, disk, S3 or MinIO
//
// # Quick Start
//
// Create a service with a deterministic local embedding generator:
//
//	gen, _ := embedding.NewDeterministic(384)
//	svc := vecstore.New(vecstore.WithGenerator(gen))
//
//	rec, err := svc.Upsert(ctx, vecstore.UpsertRequest{
//	    Namespace:  "tenant-a",
//	    Document:   "quarterly revenue report",
//	    Dimensions: 384,
//	    Model:      "local-384",
//	    Metadata:   map[string]any{"category": "finance", "year": 2026},
//	    Upsert:     true,
//	})
//
// Search with the fluent API:
//
//	results, err := svc.Query("tenant-a").
//	    Text("revenue report", "local-384").
//	    TopK(10).
//	    Threshold(0.25).
//	    Filter(map[string]any{"category": "finance"}).
//	    Execute(ctx)
//
// Or with an explicit request:
//
//	results, err := svc.Search(ctx, vecstore.SearchRequest{
//	    Namespace: "tenant-a",
//	    Query:     "revenue report",
//	    Model:     "local-384",
//	    TopK:      10,
//	})
//
// All operations are safe for concurrent use. Writes to the same
// (namespace, id) pair are serialized; writes to different ids and
// operations on different namespaces proceed in parallel. Embedding
// generation never happens while a store lock is held.
package vecstore
