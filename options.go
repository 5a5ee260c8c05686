package vecstore

import (
	"log/slog"
	"time"

	"github.com/stratuspay/vecstore/audit"
	"github.com/stratuspay/vecstore/embedding"
	"github.com/stratuspay/vecstore/engine"
)

type options struct {
	store            engine.Store
	generator        embedding.Generator
	recorder         audit.Recorder
	metricsCollector MetricsCollector
	logger           *Logger
	clock            func() time.Time
	idGenerator      func() string
}

// Option configures Service constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. store-specific constructor variants).
type Option func(*options)

// WithStore configures the backing record store.
//
// The default is an in-memory store. A durable replacement must honor
// the engine.Store contract, atomicity guarantees included.
func WithStore(s engine.Store) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithGenerator configures the embedding generator used for text
// queries and for writes that omit an explicit embedding.
//
// Without a generator, searches must supply a query vector and writes
// must supply an embedding.
func WithGenerator(g embedding.Generator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// WithAuditRecorder configures the append-only audit trail sink.
// Record failures are logged, never propagated.
//
// Example with the DynamoDB recorder:
//
//	rec, _ := audit.NewDDBRecorderFromConfig(ctx, "vecstore-audit", "tenant-a")
//	svc := vecstore.New(vecstore.WithAuditRecorder(rec))
func WithAuditRecorder(r audit.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecstore.BasicMetricsCollector{}
//	svc := vecstore.New(vecstore.WithMetricsCollector(metrics))
//	// ... use svc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Upserts: %d, Avg latency: %dns\n", stats.UpsertCount, stats.UpsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := vecstore.NewJSONLogger(slog.LevelInfo)
//	svc := vecstore.New(vecstore.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithClock overrides the time source used for record timestamps.
// Intended for tests.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.clock = fn
		}
	}
}

// WithIDGenerator overrides how vector ids are generated for writes
// that omit an id. The default generates UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.idGenerator = fn
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		recorder:         audit.NopRecorder{},
		clock:            func() time.Time { return time.Now().UTC() },
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.store == nil {
		o.store = engine.NewMemoryStore()
	}
	return o
}
