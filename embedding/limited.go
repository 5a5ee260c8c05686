package embedding

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// LimitConfig bounds traffic to an upstream embedding service.
type LimitConfig struct {
	// RequestsPerSecond caps call rate. If 0, unlimited.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size. Defaults to 1 when a rate
	// is set.
	Burst int

	// MaxInFlight caps concurrent calls. If 0, defaults to 1.
	MaxInFlight int64
}

// Limited wraps a Generator with a rate limiter and an in-flight cap.
//
// Embedding is the only operation in the engine that may take
// non-trivial wall-clock time; bounding it here keeps backpressure at
// the boundary instead of inside the store.
type Limited struct {
	inner   Generator
	limiter *rate.Limiter // nil if unlimited
	sem     *semaphore.Weighted
}

// Compile-time interface check
var _ Generator = (*Limited)(nil)

// NewLimited wraps inner with the given limits.
func NewLimited(inner Generator, cfg LimitConfig) *Limited {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 1
	}

	l := &Limited{
		inner: inner,
		sem:   semaphore.NewWeighted(cfg.MaxInFlight),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return l
}

// Embed waits for rate and concurrency budget, then delegates.
func (l *Limited) Embed(ctx context.Context, text, model string) ([]float32, int, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, 0, err
	}
	defer l.sem.Release(1)

	return l.inner.Embed(ctx, text, model)
}
