package cli

import (
	"context"
	"sync"
	"time"

	"github.com/newsdataio/newsdata-go/pkg/observability"
)

// requestStats collects HTTP and retry events for the --stats summary.
// It implements both observability.HTTPHooks and observability.RetryHooks.
type requestStats struct {
	mu      sync.Mutex
	start   time.Time
	summary statsSummary
}

// statsSummary is a snapshot of the collected counters.
type statsSummary struct {
	Requests int
	Retries  int
	Errors   int
	Status   int           // status of the last response
	Network  time.Duration // time spent in HTTP exchanges
	Elapsed  time.Duration // wall time since the collector was created
}

var (
	_ observability.HTTPHooks  = (*requestStats)(nil)
	_ observability.RetryHooks = (*requestStats)(nil)
)

func newRequestStats() *requestStats {
	return &requestStats{start: time.Now()}
}

// install registers s as the global hooks and returns a func restoring
// the defaults.
func (s *requestStats) install() func() {
	observability.SetHTTPHooks(s)
	observability.SetRetryHooks(s)
	return observability.Reset
}

func (s *requestStats) OnRequest(context.Context, string, string, string) {
	s.mu.Lock()
	s.summary.Requests++
	s.mu.Unlock()
}

func (s *requestStats) OnResponse(_ context.Context, _, _, _ string, statusCode int, d time.Duration) {
	s.mu.Lock()
	s.summary.Status = statusCode
	s.summary.Network += d
	s.mu.Unlock()
}

func (s *requestStats) OnError(context.Context, string, string, string, error) {
	s.mu.Lock()
	s.summary.Errors++
	s.mu.Unlock()
}

func (s *requestStats) OnRetry(context.Context, string, int, int, time.Duration) {
	s.mu.Lock()
	s.summary.Retries++
	s.mu.Unlock()
}

func (s *requestStats) OnComplete(context.Context, string, int, int, error) {}

// Summary returns the counters collected so far.
func (s *requestStats) Summary() statsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.summary
	out.Elapsed = time.Since(s.start).Round(time.Millisecond)
	return out
}
