package newsdata

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

const testAPIKey = "pub_test_key"

// fakeAPI is an httptest server routing the four endpoints with chi.
// Each test supplies the handler; every request is recorded.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()

	f := &fakeAPI{}
	r := chi.NewRouter()
	r.Use(f.record)
	r.Route("/api/1", func(r chi.Router) {
		r.HandleFunc("/news", handler)
		r.HandleFunc("/news/archive", handler)
		r.HandleFunc("/sources", handler)
		r.HandleFunc("/crypto", handler)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		f.bodies = append(f.bodies, body)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) baseURL() string { return f.URL + "/api/1/" }

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) last() (*http.Request, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil, nil
	}
	return f.requests[len(f.requests)-1], f.bodies[len(f.bodies)-1]
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

// testConfig points at the fake server with retries sleeping for nothing.
func testConfig(baseURL string) Config {
	return DefaultConfig(testAPIKey).WithBaseURL(baseURL)
}

func noSleep(context.Context, time.Duration) error { return nil }
