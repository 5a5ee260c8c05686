package engine

import (
	"sort"
	"sync"

	"github.com/stratuspay/vecstore/metadata"
	"github.com/stratuspay/vecstore/model"
)

// Store is the namespace keyspace contract: a per-tenant collection of
// independent namespace partitions, each mapping vector id to record.
//
// A durable replacement (the anticipated external-storage swap) must
// honor exactly these signatures and atomicity guarantees:
//   - a record is atomically visible only once fully constructed
//   - Snapshot returns stable insertion order and never leaks records
//     from any other namespace
//   - a namespace that has never been written to behaves as an empty
//     collection, not an error
type Store interface {
	// Get retrieves a record. The boolean reports presence.
	Get(namespace, id string) (model.Record, bool, error)

	// Put totally replaces the slot for rec.ID in the namespace.
	// Only the upsert resolver calls this directly.
	Put(namespace string, rec model.Record) error

	// Delete removes a record entirely. Returns true if something was
	// removed.
	Delete(namespace, id string) (bool, error)

	// Snapshot returns all records of the namespace in stable
	// insertion order.
	Snapshot(namespace string) ([]model.Record, error)

	// Candidates returns the records matching fs in stable insertion
	// order. A nil filter set returns everything.
	Candidates(namespace string, fs *metadata.FilterSet) ([]model.Record, error)

	// Count returns the number of records in the namespace.
	Count(namespace string) (int, error)

	// Namespaces lists all namespaces that have been written to,
	// sorted for deterministic output.
	Namespaces() ([]string, error)
}

// MemoryStore is the in-process Store implementation.
//
// It is an explicit, injectable object constructed once per tenant, not
// ambient global state, so tests can build isolated instances per case.
// Operations against different namespaces never contend on the same
// lock.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string]*partition
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory namespace store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[string]*partition)}
}

// lookup returns the partition if the namespace has ever been written.
func (s *MemoryStore) lookup(namespace string) *partition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partitions[namespace]
}

func (s *MemoryStore) getOrCreate(namespace string) *partition {
	s.mu.RLock()
	p := s.partitions[namespace]
	s.mu.RUnlock()
	if p != nil {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p = s.partitions[namespace]; p == nil {
		p = newPartition()
		s.partitions[namespace] = p
	}
	return p
}

// Get retrieves a record from a namespace.
func (s *MemoryStore) Get(namespace, id string) (model.Record, bool, error) {
	p := s.lookup(namespace)
	if p == nil {
		return model.Record{}, false, nil
	}
	rec, ok := p.get(id)
	return rec, ok, nil
}

// Put totally replaces the slot for rec.ID. The stored record carries
// the partition's namespace regardless of what the caller set.
func (s *MemoryStore) Put(namespace string, rec model.Record) error {
	rec.Namespace = namespace
	s.getOrCreate(namespace).put(rec)
	return nil
}

// Delete removes a record. Returns true if something was removed.
func (s *MemoryStore) Delete(namespace, id string) (bool, error) {
	p := s.lookup(namespace)
	if p == nil {
		return false, nil
	}
	return p.delete(id), nil
}

// Snapshot returns all records of the namespace in insertion order.
func (s *MemoryStore) Snapshot(namespace string) ([]model.Record, error) {
	p := s.lookup(namespace)
	if p == nil {
		return nil, nil
	}
	return p.snapshot(), nil
}

// Candidates returns the records matching fs in insertion order.
func (s *MemoryStore) Candidates(namespace string, fs *metadata.FilterSet) ([]model.Record, error) {
	p := s.lookup(namespace)
	if p == nil {
		return nil, nil
	}
	return p.candidates(fs), nil
}

// Count returns the number of records in the namespace.
func (s *MemoryStore) Count(namespace string) (int, error) {
	p := s.lookup(namespace)
	if p == nil {
		return 0, nil
	}
	return p.count(), nil
}

// Namespaces lists all namespaces that have been written to.
func (s *MemoryStore) Namespaces() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.partitions))
	for name := range s.partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
