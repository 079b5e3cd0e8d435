package newsdata

import (
	"net/http"
	"sort"
	"strings"
)

// Method is an HTTP verb supported by the transport.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// PayloadMode selects how POST parameters are sent.
type PayloadMode int

const (
	// PayloadForm sends application/x-www-form-urlencoded bodies.
	PayloadForm PayloadMode = iota
	// PayloadJSON sends application/json bodies.
	PayloadJSON
)

// Request describes a single call. It is not modified by the transport.
type Request struct {
	Method    Method
	URL       string // Endpoint URL without query string
	Params    Params
	APIKey    string
	Payload   PayloadMode
	RequestID string // Sent as X-Request-Id when non-empty
}

// RawResponse is what one transport attempt produced.
type RawResponse struct {
	StatusCode int
	Headers    map[string]string // Normalized, see [NormalizeHeaders]
	Body       []byte
}

// Response records the outcome of a call for inspection afterwards.
// A fresh Response is created for every call; when retries happen it
// reflects the last attempt only.
type Response struct {
	StatusCode int               // HTTP status of the last attempt
	Headers    map[string]string // Normalized headers of the last attempt
	Body       any               // Decoded body of the last attempt
	Raw        []byte            // Undecoded body of the last attempt
	Path       string            // Requested endpoint URL, without credentials
	Attempts   int               // Number of attempts made
	RequestID  string            // X-Request-Id sent with every attempt
}

// Header returns a normalized header value. The name may be given in
// any form: "X-RateLimit-Remaining" and "x_ratelimit_remaining" match.
func (r *Response) Header(name string) string {
	if r == nil {
		return ""
	}
	return r.Headers[normalizeHeaderKey(name)]
}

// NormalizeHeaders lower-cases header names, replaces hyphens with
// underscores and trims values. Repeated values are joined with ", ",
// as are the values of names that normalize to the same key, in sorted
// order of the raw names.
func NormalizeHeaders(h http.Header) map[string]string {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(map[string]string, len(h))
	for _, k := range names {
		v := strings.TrimSpace(strings.Join(h[k], ", "))
		key := normalizeHeaderKey(k)
		if prev, ok := out[key]; ok {
			v = prev + ", " + v
		}
		out[key] = v
	}
	return out
}

func normalizeHeaderKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
}
