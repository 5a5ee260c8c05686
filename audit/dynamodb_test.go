package audit

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDDB is an in-memory stand-in for the DynamoDB stream table,
// honoring the attribute_not_exists(seq) condition.
type fakeDDB struct {
	mu    sync.Mutex
	items map[uint64]map[string]types.AttributeValue

	putCalls   int
	failPutSeq map[uint64]int // seq -> remaining forced condition failures
	queryErr   error
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{
		items:      make(map[uint64]map[string]types.AttributeValue),
		failPutSeq: make(map[uint64]int),
	}
}

func (f *fakeDDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++

	n := params.Item["seq"].(*types.AttributeValueMemberN)
	seq, err := strconv.ParseUint(n.Value, 10, 64)
	if err != nil {
		return nil, err
	}

	if f.failPutSeq[seq] > 0 {
		f.failPutSeq[seq]--
		// Simulate a concurrent writer claiming the slot first.
		f.items[seq] = params.Item
		return nil, &types.ConditionalCheckFailedException{}
	}
	if _, exists := f.items[seq]; exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.items[seq] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	seqs := make([]uint64, 0, len(f.items))
	for s := range f.items {
		seqs = append(seqs, s)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] > seqs[j] })

	out := &dynamodb.QueryOutput{}
	if len(seqs) > 0 {
		out.Items = []map[string]types.AttributeValue{f.items[seqs[0]]}
	}
	return out, nil
}

func testEvent() Event {
	return Event{
		Namespace: "tenant-a",
		VectorID:  "v1",
		Operation: OpUpsert,
		Outcome:   "created",
		At:        time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDDBRecorderAppend(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	rec := NewDDBRecorder(ddb, "vecstore-audit", "stream-1")

	require.NoError(t, rec.Record(ctx, testEvent()))
	require.NoError(t, rec.Record(ctx, testEvent()))
	require.NoError(t, rec.Record(ctx, testEvent()))

	// Sequence numbers 1..3 with no gaps or overwrites.
	require.Len(t, ddb.items, 3)
	for seq := uint64(1); seq <= 3; seq++ {
		item, ok := ddb.items[seq]
		require.True(t, ok, "missing seq %d", seq)
		assert.Equal(t, "tenant-a", item["namespace"].(*types.AttributeValueMemberS).Value)
		assert.Equal(t, "upsert", item["operation"].(*types.AttributeValueMemberS).Value)
		assert.Equal(t, "stream-1", item["stream"].(*types.AttributeValueMemberS).Value)
	}
}

func TestDDBRecorderRetriesContention(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	// First attempt at seq 1 loses the race; the retry lands at seq 2.
	ddb.failPutSeq[1] = 1
	rec := NewDDBRecorder(ddb, "vecstore-audit", "stream-1")

	require.NoError(t, rec.Record(ctx, testEvent()))
	assert.Equal(t, 2, ddb.putCalls)
}

func TestDDBRecorderGivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	for seq := uint64(1); seq <= 10; seq++ {
		ddb.failPutSeq[seq] = 10
	}
	rec := NewDDBRecorder(ddb, "vecstore-audit", "stream-1")

	err := rec.Record(ctx, testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gave up")
}

func TestDDBRecorderQueryError(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	ddb.queryErr = errors.New("throttled")
	rec := NewDDBRecorder(ddb, "vecstore-audit", "stream-1")

	err := rec.Record(ctx, testEvent())
	assert.ErrorContains(t, err, "throttled")
}
