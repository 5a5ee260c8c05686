// Package audit defines the append-only audit trail boundary.
//
// The engine emits one event per successful write or delete and per
// notable rejection. Persisting the trail is the collaborator's job;
// the engine never reads it back.
package audit

import (
	"context"
	"sync"
	"time"
)

// Operation identifies the kind of engine operation an event records.
type Operation string

const (
	// OpUpsert covers create and update writes.
	OpUpsert Operation = "upsert"
	// OpDelete covers record removal.
	OpDelete Operation = "delete"
)

// Event is one audit record.
type Event struct {
	// Namespace and VectorID scope the event.
	Namespace string `json:"namespace"`
	VectorID  string `json:"vector_id"`

	// Operation is the operation kind.
	Operation Operation `json:"operation"`

	// Outcome is "created", "updated" or "deleted" on success, or the
	// error kind on a rejection.
	Outcome string `json:"outcome"`

	// At is when the engine emitted the event.
	At time.Time `json:"at"`
}

// Recorder receives audit events.
//
// Record failures are logged by the service, never propagated: a broken
// audit sink must not reject writes.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// NopRecorder discards all events.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Event) error { return nil }

// MemoryRecorder keeps events in memory, in arrival order. Useful for
// tests and local inspection.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record implements Recorder.
func (m *MemoryRecorder) Record(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of all recorded events.
func (m *MemoryRecorder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
