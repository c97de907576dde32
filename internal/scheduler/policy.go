package scheduler

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is the execution policy applied around whole-job invocations:
// bounded attempts with exponential backoff and jitter. It lives in the
// harness so retry mechanics stay out of the enforcement logic it wraps.
type Policy struct {
	// MaxAttempts caps total invocations of one run, first try included.
	// Zero means retry until the context is cancelled.
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Jitter is the randomization factor applied to every interval, in
	// [0, 1].
	Jitter float64
}

// DefaultPolicy allows five attempts starting ten seconds apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     5,
		InitialInterval: 10 * time.Second,
		MaxInterval:     5 * time.Minute,
		Jitter:          0.5,
	}
}

// Execute runs op until it succeeds, attempts are exhausted or ctx is
// cancelled, sleeping the backoff interval between attempts.
func (p Policy) Execute(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.RandomizationFactor = p.Jitter
	b.MaxElapsedTime = 0

	var policy backoff.BackOff = b
	if p.MaxAttempts > 0 {
		policy = backoff.WithMaxRetries(policy, p.MaxAttempts-1)
	}
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}
