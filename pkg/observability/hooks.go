// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about HTTP exchanges and retry decisions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the client library free of observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, a CLI summary)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    observability.SetRetryHooks(&myRetryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.HTTP().OnRequest(ctx, method, host, path)
//	// ... send request ...
//	observability.HTTP().OnResponse(ctx, method, host, path, status, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Retry Hooks
// =============================================================================

// RetryHooks receives events from the retry loop.
type RetryHooks interface {
	// OnRetry records that attempt (1-based) ended with statusCode and
	// another attempt follows after delay.
	OnRetry(ctx context.Context, path string, attempt, statusCode int, delay time.Duration)

	// OnComplete records the end of a call with the total number of attempts.
	OnComplete(ctx context.Context, path string, attempts, statusCode int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopRetryHooks is a no-op implementation of RetryHooks.
type NoopRetryHooks struct{}

func (NoopRetryHooks) OnRetry(context.Context, string, int, int, time.Duration) {}
func (NoopRetryHooks) OnComplete(context.Context, string, int, int, error)      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	retryHooks RetryHooks = NoopRetryHooks{}
	hooksMu    sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetRetryHooks registers custom retry hooks.
func SetRetryHooks(h RetryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		retryHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Retry returns the registered retry hooks.
func Retry() RetryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return retryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
	retryHooks = NoopRetryHooks{}
}
