// Package httputil provides the retry loop shared by the newsdata client.
//
// # Overview
//
// [Do] wraps a single request attempt in a bounded loop:
//
//   - The attempt runs once when [Policy.MaxRetries] is zero
//   - Only server errors (status >= 500) trigger another attempt
//   - 4xx responses end the loop and are handed back to the caller
//   - Errors returned by the attempt (network, TLS, timeouts) end the
//     loop immediately; they are never retried here
//
// A fixed [Policy.Delay] separates attempts:
//
//	p := httputil.Policy{MaxRetries: 3, Delay: time.Second}
//	attempts, err := httputil.Do(ctx, p, nil, func(ctx context.Context, n int) (int, error) {
//	    resp, err := send(ctx)
//	    if err != nil {
//	        return 0, err
//	    }
//	    return resp.StatusCode, nil
//	})
//
// # Configuration
//
// Default settings mirror the vendor API client:
//
//   - Max retries: 0 (disabled)
//   - Delay: 1 second
//
// The sleep between attempts honors context cancellation and can be
// replaced with a [SleepFunc] in tests.
package httputil
