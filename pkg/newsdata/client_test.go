package newsdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_LatestNewsMockTransport(t *testing.T) {
	tr := &mockTransport{results: []mockResult{{status: 200, body: `{"results":[]}`}}}
	c, err := NewClient(testAPIKey, WithTransport(tr))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	got, err := c.LatestNews(context.Background(), Params{"q": "ronaldo", "country": "ie"})
	if err != nil {
		t.Fatalf("LatestNews() error: %v", err)
	}

	want := map[string]any{"results": []any{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LatestNews() = %#v, want %#v", got, want)
	}
	if resp := c.LastResponse(); resp == nil || resp.StatusCode != 200 {
		t.Errorf("LastResponse() = %+v, want status 200", resp)
	}

	req := tr.requests[0]
	if req.Method != MethodGet || req.URL != "https://newsdata.io/api/1/news" {
		t.Errorf("request = %s %s", req.Method, req.URL)
	}
	if req.Params["q"] != "ronaldo" || req.Params["country"] != "ie" {
		t.Errorf("params = %v, want forwarded unchanged", req.Params)
	}
}

func TestClient_Endpoints(t *testing.T) {
	api := newFakeAPI(t, jsonHandler(http.StatusOK, `{"status":"success","totalResults":1,"results":[{"title":"t"}]}`))
	c, err := New(testConfig(api.baseURL()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		name string
		call func(context.Context, Params) (any, error)
		path string
	}{
		{"latest", c.LatestNews, "/api/1/news"},
		{"archive", c.Archive, "/api/1/news/archive"},
		{"sources", c.Sources, "/api/1/sources"},
		{"crypto", c.Crypto, "/api/1/crypto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.call(context.Background(), Params{"language": "en", "page": 2})
			if err != nil {
				t.Fatalf("call error: %v", err)
			}
			m, ok := body.(map[string]any)
			if !ok || m["status"] != "success" {
				t.Errorf("body = %#v", body)
			}

			req, _ := api.last()
			if req.Method != http.MethodGet {
				t.Errorf("Method = %s, want GET", req.Method)
			}
			if req.URL.Path != tt.path {
				t.Errorf("Path = %q, want %q", req.URL.Path, tt.path)
			}
			q := req.URL.Query()
			if q.Get("apikey") != testAPIKey || q.Get("language") != "en" || q.Get("page") != "2" {
				t.Errorf("query = %v", q)
			}
			if req.Header.Get("X-Request-Id") == "" {
				t.Error("X-Request-Id missing")
			}

			resp := c.LastResponse()
			if resp.Header("content-type") != "application/json" {
				t.Errorf("content_type = %q", resp.Header("content-type"))
			}
		})
	}

	if api.count() != len(tests) {
		t.Errorf("server saw %d requests, want %d", api.count(), len(tests))
	}
}

func TestClient_ClientErrorIsValue(t *testing.T) {
	api := newFakeAPI(t, jsonHandler(http.StatusUnauthorized,
		`{"status":"error","results":{"message":"API key is invalid","code":"Unauthorized"}}`))
	c, _ := New(testConfig(api.baseURL()).WithRetries(3, time.Second), WithSleep(noSleep))

	body, err := c.LatestNews(context.Background(), nil)
	if err != nil {
		t.Fatalf("LatestNews() error: %v", err)
	}
	if body.(map[string]any)["status"] != "error" {
		t.Errorf("body = %v", body)
	}
	if api.count() != 1 {
		t.Errorf("4xx retried: %d requests", api.count())
	}
	if c.LastResponse().StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", c.LastResponse().StatusCode)
	}
}

func TestClient_RedirectIsRecorded(t *testing.T) {
	var elsewhere atomic.Int32
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		elsewhere.Add(1)
		w.Write([]byte(`{"from":"elsewhere"}`))
	}))
	defer other.Close()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", other.URL)
		w.WriteHeader(http.StatusFound)
	})
	c, _ := New(testConfig(api.baseURL()).WithRetries(2, time.Second), WithSleep(noSleep))

	body, err := c.LatestNews(context.Background(), Params{"q": "ronaldo"})
	if err != nil {
		t.Fatalf("LatestNews() error: %v", err)
	}
	if body != nil {
		t.Errorf("body = %v, want nil", body)
	}
	resp := c.LastResponse()
	if resp.StatusCode != http.StatusFound || resp.Attempts != 1 {
		t.Errorf("resp = status %d attempts %d, want 302 after 1", resp.StatusCode, resp.Attempts)
	}
	if api.count() != 1 || elsewhere.Load() != 0 {
		t.Errorf("exchanges: api %d, elsewhere %d; want 1 and 0", api.count(), elsewhere.Load())
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	api := newFakeAPI(t, jsonHandler(http.StatusBadGateway, `{"status":"error"}`))
	c, _ := New(testConfig(api.baseURL()).WithRetries(2, time.Second), WithSleep(noSleep))

	if _, err := c.Crypto(context.Background(), Params{"coin": "btc"}); err != nil {
		t.Fatalf("Crypto() error: %v", err)
	}
	if api.count() != 3 {
		t.Errorf("requests = %d, want 3", api.count())
	}
	if c.LastResponse().Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", c.LastResponse().Attempts)
	}
}

func TestClient_PostJSON(t *testing.T) {
	api := newFakeAPI(t, jsonHandler(http.StatusOK, `{"status":"success"}`))
	c, _ := New(testConfig(api.baseURL()))

	if _, err := c.Post(context.Background(), PathLatest, Params{"q": "bitcoin"}, PayloadJSON); err != nil {
		t.Fatalf("Post() error: %v", err)
	}

	req, body := api.last()
	if req.Method != http.MethodPost {
		t.Errorf("Method = %s", req.Method)
	}
	if req.URL.RawQuery != "apikey="+testAPIKey {
		t.Errorf("RawQuery = %q", req.URL.RawQuery)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	var sent map[string]any
	if err := json.Unmarshal(body, &sent); err != nil || sent["q"] != "bitcoin" {
		t.Errorf("body = %s (%v)", body, err)
	}
}

func TestClient_PostForm(t *testing.T) {
	api := newFakeAPI(t, jsonHandler(http.StatusOK, `{}`))
	c, _ := New(testConfig(api.baseURL()))

	if _, err := c.Post(context.Background(), PathSources, Params{"country": "ie"}, PayloadForm); err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	req, body := api.last()
	if req.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	if string(body) != "country=ie" {
		t.Errorf("body = %q", body)
	}
}

func TestClient_Do(t *testing.T) {
	api := newFakeAPI(t, jsonHandler(http.StatusOK, `{"deleted":true}`))
	c, _ := New(testConfig(api.baseURL()))

	resp, err := c.Do(context.Background(), MethodDelete, PathSources, Params{"id": "bbc"}, PayloadForm)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	req, _ := api.last()
	if req.Method != http.MethodDelete || req.URL.Query().Get("id") != "bbc" {
		t.Errorf("request = %s %s", req.Method, req.URL)
	}
	if resp.Path != api.baseURL()+PathSources {
		t.Errorf("Path = %q", resp.Path)
	}
}

func TestClient_WithConfigDoesNotMutate(t *testing.T) {
	tr := &mockTransport{results: []mockResult{{status: 200, body: `{}`}}}
	c, _ := NewClient(testAPIKey, WithTransport(tr))
	before := c.Config()

	c2, err := c.WithConfig(c.Config().WithAPIKey("other_key").WithRetries(2, time.Second))
	if err != nil {
		t.Fatalf("WithConfig() error: %v", err)
	}
	if c.Config() != before {
		t.Errorf("receiver mutated: %+v", c.Config())
	}
	if c2.Config().APIKey != "other_key" || c2.Config().MaxRetries != 2 {
		t.Errorf("new config = %+v", c2.Config())
	}

	if _, err := c2.Sources(context.Background(), nil); err != nil {
		t.Fatalf("Sources() error: %v", err)
	}
	if tr.requests[0].APIKey != "other_key" {
		t.Errorf("options not carried over: APIKey = %q", tr.requests[0].APIKey)
	}
	if c.LastResponse() != nil {
		t.Error("original client saw the new client's call")
	}

	if _, err := c.WithConfig(DefaultConfig("")); err == nil {
		t.Error("WithConfig() accepted an invalid config")
	}
}

func TestClient_WithConfigRebuildsDefaultTransport(t *testing.T) {
	var proxied atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer proxy.Close()

	pu, _ := url.Parse(proxy.URL)
	p, err := ParseProxy(pu.Host)
	if err != nil {
		t.Fatalf("ParseProxy() error: %v", err)
	}

	c, err := New(testConfig("http://news.example.test/api/1/"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	c2, err := c.WithConfig(c.Config().WithProxy(p))
	if err != nil {
		t.Fatalf("WithConfig() error: %v", err)
	}

	if _, err := c2.Sources(context.Background(), nil); err != nil {
		t.Fatalf("Sources() error: %v", err)
	}
	if proxied.Load() != 1 {
		t.Errorf("proxy saw %d requests, want 1", proxied.Load())
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://newsdata.io/api/1/", "news", "https://newsdata.io/api/1/news"},
		{"https://newsdata.io/api/1", "news", "https://newsdata.io/api/1/news"},
		{"https://newsdata.io/api/1/", "/news/archive", "https://newsdata.io/api/1/news/archive"},
	}
	for _, tt := range tests {
		if got := EndpointURL(tt.base, tt.path); got != tt.want {
			t.Errorf("EndpointURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
