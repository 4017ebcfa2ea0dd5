package api

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/dwtools/dwcli/internal/config"
	"github.com/dwtools/dwcli/internal/constants"
)

// RetryPolicy bounds the retry loop around platform requests. It is
// configured once at startup and read-only afterwards.
//
// The delay before each retry is
//
//	BaseDelay + floor(random() * (JitterMax - JitterMin)) seconds
//
// which matches the delay the platform operators document for well-behaved
// clients. Only a 200 response counts as success; every other status is
// retried until MaxAttempts is exhausted. Transport errors are never
// retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	JitterMin   time.Duration
	JitterMax   time.Duration

	// rnd is the jitter source; replaceable in tests
	rnd func() float64
}

// DefaultRetryPolicy returns the built-in retry policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.DefaultRetryMax,
		BaseDelay:   constants.DefaultRetryBase,
		JitterMin:   constants.DefaultRetryJitterMin,
		JitterMax:   constants.DefaultRetryJitterMax,
	}
}

// PolicyFromConfig builds a RetryPolicy from the configured second counts
func PolicyFromConfig(r config.Retry) RetryPolicy {
	p := DefaultRetryPolicy()
	if r.MaxAttempts > 0 {
		p.MaxAttempts = r.MaxAttempts
	}
	if r.BaseSeconds >= 0 {
		p.BaseDelay = time.Duration(r.BaseSeconds * float64(time.Second))
	}
	if r.JitterMinSecs >= 0 {
		p.JitterMin = time.Duration(r.JitterMinSecs * float64(time.Second))
	}
	if r.JitterMaxSecs >= 0 {
		p.JitterMax = time.Duration(r.JitterMaxSecs * float64(time.Second))
	}
	return p
}

// Delay returns the backoff duration before the next attempt
func (p RetryPolicy) Delay() time.Duration {
	rnd := p.rnd
	if rnd == nil {
		rnd = rand.Float64
	}

	jitterRange := (p.JitterMax - p.JitterMin).Seconds()
	if jitterRange < 0 {
		jitterRange = 0
	}
	extra := time.Duration(math.Floor(rnd()*jitterRange)) * time.Second

	return p.BaseDelay + extra
}

// sleep waits for the backoff delay or until the context is cancelled
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
