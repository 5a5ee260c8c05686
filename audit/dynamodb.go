package audit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the interface for the DynamoDB operations the recorder
// needs. *dynamodb.Client satisfies it.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DDBRecorder appends audit events to a DynamoDB table.
//
// DynamoDB conditional writes give the append-only guarantee the trail
// needs: each event lands at the next free sequence number of its
// stream, and no event is ever overwritten.
//
// Table schema:
//   - Partition key: stream (string) - one stream per tenant/service
//   - Sort key: seq (number) - monotonically increasing sequence
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name vecstore-audit \
//	  --attribute-definitions AttributeName=stream,AttributeType=S AttributeName=seq,AttributeType=N \
//	  --key-schema AttributeName=stream,KeyType=HASH AttributeName=seq,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBRecorder struct {
	client    DDBClient
	tableName string
	stream    string
}

// Compile-time interface check
var _ Recorder = (*DDBRecorder)(nil)

// putAttempts bounds retries when concurrent writers race for the same
// sequence number.
const putAttempts = 5

// NewDDBRecorder creates a DynamoDB-backed recorder writing to the
// given stream.
func NewDDBRecorder(client DDBClient, tableName, stream string) *DDBRecorder {
	return &DDBRecorder{
		client:    client,
		tableName: tableName,
		stream:    stream,
	}
}

// NewDDBRecorderFromConfig builds the DynamoDB client from the default
// AWS config chain (environment, shared config, instance role).
func NewDDBRecorderFromConfig(ctx context.Context, tableName, stream string) (*DDBRecorder, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewDDBRecorder(dynamodb.NewFromConfig(cfg), tableName, stream), nil
}

// Record appends the event at the next free sequence number.
func (r *DDBRecorder) Record(ctx context.Context, ev Event) error {
	for attempt := 0; attempt < putAttempts; attempt++ {
		seq, err := r.latestSeq(ctx)
		if err != nil {
			return err
		}

		err = r.put(ctx, seq+1, ev)
		if err == nil {
			return nil
		}

		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// Another writer claimed the slot; retry with a fresh read.
			continue
		}
		return err
	}
	return fmt.Errorf("audit append to stream %q: gave up after %d contended attempts", r.stream, putAttempts)
}

func (r *DDBRecorder) put(ctx context.Context, seq uint64, ev Event) error {
	item := map[string]types.AttributeValue{
		"stream":    &types.AttributeValueMemberS{Value: r.stream},
		"seq":       &types.AttributeValueMemberN{Value: strconv.FormatUint(seq, 10)},
		"namespace": &types.AttributeValueMemberS{Value: ev.Namespace},
		"vector_id": &types.AttributeValueMemberS{Value: ev.VectorID},
		"operation": &types.AttributeValueMemberS{Value: string(ev.Operation)},
		"outcome":   &types.AttributeValueMemberS{Value: ev.Outcome},
		"at":        &types.AttributeValueMemberS{Value: ev.At.UTC().Format(time.RFC3339Nano)},
	}

	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(seq)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put audit item: %w", err)
	}
	return nil
}

// latestSeq queries the highest committed sequence number of the stream.
func (r *DDBRecorder) latestSeq(ctx context.Context) (uint64, error) {
	resp, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("stream = :stream"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stream": &types.AttributeValueMemberS{Value: r.stream},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query audit stream: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, nil
	}
	n, ok := resp.Items[0]["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("audit stream %q: unexpected seq attribute type", r.stream)
	}
	seq, err := strconv.ParseUint(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("audit stream %q: parsing seq: %w", r.stream, err)
	}
	return seq, nil
}
