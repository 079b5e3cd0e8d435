package httputil

import (
	"context"
	"time"
)

// Defaults for [Policy], matching the vendor client this package backs.
const (
	DefaultMaxRetries = 0
	DefaultRetryDelay = time.Second
)

// Policy describes when a request is re-issued.
//
// Retries trigger only on server errors (status >= 500). A MaxRetries of
// zero disables retrying, so the attempt runs exactly once. The Delay is
// fixed: it does not grow between attempts.
type Policy struct {
	MaxRetries int           // Extra attempts allowed after the first (0 = none)
	Delay      time.Duration // Sleep before every attempt except the first
}

// DefaultPolicy returns a policy with retries disabled.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, Delay: DefaultRetryDelay}
}

// Enabled reports whether the policy allows any retry at all.
func (p Policy) Enabled() bool { return p.MaxRetries > 0 }

// ShouldRetry reports whether another attempt is due after attempts
// completed attempts whose last status was status.
func (p Policy) ShouldRetry(attempts, status int) bool {
	return p.Enabled() && attempts <= p.MaxRetries && status >= 500
}

// SleepFunc pauses for d or until ctx is done, returning ctx.Err() in the
// latter case. Tests swap it out to observe delays without waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default [SleepFunc].
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// AttemptFunc performs one attempt and reports the HTTP status it saw.
// A non-nil error ends the loop immediately.
type AttemptFunc func(ctx context.Context, attempt int) (status int, err error)

// Do runs attempt under policy p and returns the number of attempts made.
//
// The loop is an explicit state machine:
//
//	Attempt -> Evaluate(status) -> Retry | Return
//
// Before every attempt but the first, and only when retries are enabled,
// Do sleeps for p.Delay. Errors from attempt are returned as-is and are
// never retried. If sleep is nil, [Sleep] is used.
func Do(ctx context.Context, p Policy, sleep SleepFunc, attempt AttemptFunc) (int, error) {
	if sleep == nil {
		sleep = Sleep
	}

	attempts := 0
	for {
		if attempts > 0 && p.Enabled() {
			if err := sleep(ctx, p.Delay); err != nil {
				return attempts, err
			}
		}

		status, err := attempt(ctx, attempts)
		attempts++
		if err != nil {
			return attempts, err
		}

		if !p.ShouldRetry(attempts, status) {
			return attempts, nil
		}
	}
}
