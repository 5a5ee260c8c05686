package engine

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stratuspay/vecstore/model"
)

// writeStripes is the number of write-lock stripes. Writes to the same
// (namespace, id) always map to the same stripe; writes to different
// ids proceed in parallel apart from rare stripe collisions.
const writeStripes = 128

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithClock injects the timestamp source. The default is time.Now in
// UTC; tests inject a fixed clock.
func WithClock(fn func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.clock = fn
		}
	}
}

// WithIDGenerator injects the generator used when a write omits the
// vector id.
func WithIDGenerator(fn func() string) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Resolver decides create/update/reject semantics for a write.
//
// The whole resolve for a given (namespace, id) is serialized against
// any other write to the same pair via striped locks, so two
// concurrent upserts to the same id settle deterministically to
// last-writer-wins with no interleaved partial state.
type Resolver struct {
	store   Store
	clock   func() time.Time
	newID   func() string
	stripes [writeStripes]sync.Mutex
}

// NewResolver creates a resolver over the given store.
func NewResolver(store Store, optFns ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		clock: func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(r)
		}
	}
	return r
}

func (r *Resolver) stripe(namespace, id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(id))
	return &r.stripes[h.Sum32()%writeStripes]
}

// Resolve applies the write behavior matrix:
//
//	id given?  existing?  upsert  outcome
//	no         -          any     generate id, create
//	yes        absent     false   create with given id
//	yes        absent     true    create with given id
//	yes        present    true    update in place, created_at preserved
//	yes        present    false   reject, already exists
//
// The dimension-change check applies only on the update-in-place
// branch. rec must already have passed ValidateVector.
func (r *Resolver) Resolve(namespace string, rec model.Record, upsert bool) (model.Record, model.WriteOutcome, error) {
	if rec.ID == "" {
		rec.ID = r.newID()
	}
	rec.Namespace = namespace

	lock := r.stripe(namespace, rec.ID)
	lock.Lock()
	defer lock.Unlock()

	existing, found, err := r.store.Get(namespace, rec.ID)
	if err != nil {
		return model.Record{}, 0, err
	}

	outcome := model.OutcomeCreated
	now := r.clock()
	if found {
		if !upsert {
			return model.Record{}, 0, fmt.Errorf("%w: id %q in namespace %q", ErrAlreadyExists, rec.ID, namespace)
		}
		if rec.Dimensions != existing.Dimensions {
			return model.Record{}, 0, &ErrDimensionChange{Stored: existing.Dimensions, Requested: rec.Dimensions}
		}
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = now
		outcome = model.OutcomeUpdated
	} else {
		rec.CreatedAt = now
		rec.UpdatedAt = now
	}

	if err := r.store.Put(namespace, rec); err != nil {
		return model.Record{}, 0, err
	}

	// Re-read so the caller sees the canonical stored record, sequence
	// number included.
	stored, _, err := r.store.Get(namespace, rec.ID)
	if err != nil {
		return model.Record{}, 0, err
	}
	return stored, outcome, nil
}
