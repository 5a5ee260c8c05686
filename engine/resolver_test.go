package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratuspay/vecstore/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolverCreate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	r := NewResolver(store, WithClock(fixedClock(now)))

	rec, outcome, err := r.Resolve("ns", testRecord("a", 384, nil), false)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCreated, outcome)
	assert.Equal(t, "a", rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, now, rec.UpdatedAt)
	assert.Equal(t, uint32(0), rec.Seq)
}

func TestResolverGeneratedID(t *testing.T) {
	store := NewMemoryStore()
	n := 0
	r := NewResolver(store, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}))

	rec, outcome, err := r.Resolve("ns", testRecord("", 384, nil), false)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCreated, outcome)
	assert.Equal(t, "gen-1", rec.ID)

	// A generated id never collides with the previous one.
	rec2, _, err := r.Resolve("ns", testRecord("", 384, nil), false)
	require.NoError(t, err)
	assert.Equal(t, "gen-2", rec2.ID)
}

func TestResolverCollision(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	_, _, err := r.Resolve("ns", testRecord("a", 384, nil), false)
	require.NoError(t, err)

	t.Run("without upsert flag rejects", func(t *testing.T) {
		_, _, err := r.Resolve("ns", testRecord("a", 384, nil), false)
		assert.ErrorIs(t, err, ErrAlreadyExists)

		// The rejection left the stored record untouched.
		stored, found, err := store.Get("ns", "a")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "doc a", stored.Document)
	})

	t.Run("same id in another namespace is no collision", func(t *testing.T) {
		_, outcome, err := r.Resolve("ns2", testRecord("a", 384, nil), false)
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeCreated, outcome)
	})
}

func TestResolverUpdate(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	store := NewMemoryStore()
	current := t0
	r := NewResolver(store, WithClock(func() time.Time { return current }))

	created, _, err := r.Resolve("ns", testRecord("a", 384, nil), true)
	require.NoError(t, err)

	current = t1
	update := testRecord("a", 384, nil)
	update.Document = "revised"
	updated, outcome, err := r.Resolve("ns", update, true)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeUpdated, outcome)
	assert.Equal(t, "revised", updated.Document)
	assert.Equal(t, t0, updated.CreatedAt, "created_at must survive updates")
	assert.Equal(t, t1, updated.UpdatedAt)
	assert.Equal(t, created.Seq, updated.Seq, "sequence number must survive updates")
}

func TestResolverDimensionChange(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	_, _, err := r.Resolve("ns", testRecord("a", 384, nil), true)
	require.NoError(t, err)

	_, _, err = r.Resolve("ns", testRecord("a", 768, nil), true)
	var dc *ErrDimensionChange
	require.True(t, errors.As(err, &dc))
	assert.Equal(t, 384, dc.Stored)
	assert.Equal(t, 768, dc.Requested)

	// The rejected write left the record intact.
	stored, found, err := store.Get("ns", "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 384, stored.Dimensions)
}

func TestResolverConcurrentUpsertsSameID(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	const writers = 16
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := testRecord("contended", 384, nil)
			rec.Document = fmt.Sprintf("writer-%d", w)
			rec.Embedding[0] = float32(w)
			_, _, err := r.Resolve("ns", rec, true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Last writer wins with no interleaved partial state: the stored
	// document and embedding must come from the same write.
	stored, found, err := store.Get("ns", "contended")
	require.NoError(t, err)
	require.True(t, found)
	var w int
	_, scanErr := fmt.Sscanf(stored.Document, "writer-%d", &w)
	require.NoError(t, scanErr)
	assert.Equal(t, float32(w), stored.Embedding[0])

	n, err := store.Count("ns")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolverConcurrentCreatesDistinctIDs(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	const writers = 32
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := r.Resolve("ns", testRecord(fmt.Sprintf("vec-%d", w), 384, nil), false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := store.Count("ns")
	require.NoError(t, err)
	assert.Equal(t, writers, n)

	// Sequence numbers are unique.
	recs, err := store.Snapshot("ns")
	require.NoError(t, err)
	seen := make(map[uint32]bool, len(recs))
	for _, rec := range recs {
		assert.False(t, seen[rec.Seq], "duplicate seq %d", rec.Seq)
		seen[rec.Seq] = true
	}
}
