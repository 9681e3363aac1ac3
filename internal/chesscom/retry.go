package chesscom

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	gobreaker "github.com/sony/gobreaker/v2"
)

// RetryPolicy decides how often and how long to retry a provider call.
// The n-th retry waits BaseDelay*n.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy makes three attempts, waiting 500ms then 1s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Retryable:   IsTransient,
	}
}

// IsTransient reports whether err is worth another attempt.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return false
	}
	return true
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

func (p RetryPolicy) backoff() retry.Backoff {
	var n int64
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		return time.Duration(atomic.AddInt64(&n, 1)) * p.BaseDelay, false
	})
	return retry.WithMaxRetries(uint64(p.MaxAttempts-1), linear)
}

// Do runs fn until it succeeds, returns a non-retryable error, or runs out of
// attempts. It returns the last error and the number of attempts made.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	p = p.normalized()

	attempts := 0
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempts++
		err := fn(ctx)
		if err != nil && p.Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return attempts, err
}
