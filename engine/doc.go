// Package engine holds the storage and ranking core: the namespace
// keyspace, vector validation, upsert resolution, and deterministic
// similarity ranking.
//
// The service façade in the root package is the only intended caller;
// nothing here performs I/O or holds locks across external calls.
package engine
