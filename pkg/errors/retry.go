// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package errors

import (
	"context"
	"math"
	"time"
)

// RetryConfig tunes the automatic retry loop.
type RetryConfig struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the standard policy: 3 attempts total with
// 1s, 2s backoff between them. No jitter; backoff is deterministic.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BaseDelay:         time.Second,
		BackoffMultiplier: 2,
	}
}

func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = 2
	}
	return c
}

// delay returns the backoff before retry number attempt (1-based).
func (c RetryConfig) delay(attempt int) time.Duration {
	return time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiplier, float64(attempt-1)))
}

// WithRetry invokes op up to cfg.MaxAttempts times. After each failure the
// error is classified; non-retryable kinds stop immediately. The last error
// is returned tagged with its classified kind. Sleeps are cut short when ctx
// is cancelled.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, op func(context.Context) (T, error)) (T, error) {
	cfg = cfg.normalized()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		kind := Classify(err)
		if !Retryable(kind) || attempt == cfg.MaxAttempts {
			return zero, Wrapf(err, kind, "attempt %d/%d", attempt, cfg.MaxAttempts)
		}

		if err := sleep(ctx, cfg.delay(attempt)); err != nil {
			return zero, Wrap(err, KindTimeout, "retry interrupted")
		}
	}

	// Not reachable: the loop always returns on the final attempt.
	return zero, Wrap(lastErr, Classify(lastErr), "retries exhausted")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
