package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/newsdataio/newsdata-go/pkg/observability"
)

func TestRequestStats(t *testing.T) {
	s := newRequestStats()
	restore := s.install()
	defer restore()

	ctx := context.Background()
	observability.HTTP().OnRequest(ctx, "GET", "newsdata.io", "/api/1/news")
	observability.HTTP().OnResponse(ctx, "GET", "newsdata.io", "/api/1/news", 503, 20*time.Millisecond)
	observability.Retry().OnRetry(ctx, "news", 1, 503, time.Second)
	observability.HTTP().OnRequest(ctx, "GET", "newsdata.io", "/api/1/news")
	observability.HTTP().OnResponse(ctx, "GET", "newsdata.io", "/api/1/news", 200, 30*time.Millisecond)
	observability.Retry().OnComplete(ctx, "news", 2, 200, nil)

	got := s.Summary()
	if got.Requests != 2 || got.Retries != 1 || got.Errors != 0 {
		t.Errorf("Summary() = %+v", got)
	}
	if got.Status != 200 {
		t.Errorf("Status = %d, want last status 200", got.Status)
	}
	if got.Network != 50*time.Millisecond {
		t.Errorf("Network = %v, want 50ms", got.Network)
	}
}

func TestRequestStatsRestore(t *testing.T) {
	s := newRequestStats()
	s.install()()

	if _, ok := observability.HTTP().(observability.NoopHTTPHooks); !ok {
		t.Errorf("HTTP hooks not restored: %T", observability.HTTP())
	}
	if _, ok := observability.Retry().(observability.NoopRetryHooks); !ok {
		t.Errorf("retry hooks not restored: %T", observability.Retry())
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, statsSummary{Requests: 3, Retries: 2, Errors: 1, Status: 502, Elapsed: 1500 * time.Millisecond})

	out := buf.String()
	for _, want := range []string{"3 requests", "2 retries", "1 errors", "1.5s", "HTTP 502"} {
		if !strings.Contains(out, want) {
			t.Errorf("printStats() output %q missing %q", out, want)
		}
	}
}
