package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorder(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()

	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, rec.Record(ctx, Event{
		Namespace: "ns", VectorID: "v1", Operation: OpUpsert, Outcome: "created", At: at,
	}))
	require.NoError(t, rec.Record(ctx, Event{
		Namespace: "ns", VectorID: "v1", Operation: OpDelete, Outcome: "deleted", At: at.Add(time.Second),
	}))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, OpUpsert, events[0].Operation)
	assert.Equal(t, OpDelete, events[1].Operation)

	// Events() hands out a copy.
	events[0].Outcome = "mutated"
	assert.Equal(t, "created", rec.Events()[0].Outcome)
}

func TestMemoryRecorderConcurrent(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_ = rec.Record(ctx, Event{Namespace: "ns", Operation: OpUpsert})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Events(), 200)
}

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, NopRecorder{}.Record(context.Background(), Event{}))
}
