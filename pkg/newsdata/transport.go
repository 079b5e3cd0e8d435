package newsdata

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/observability"
)

// TransportError is returned when an attempt fails below HTTP.
type TransportError = errors.TransportError

// Transport performs exactly one HTTP exchange per call.
// Implementations must not retry; retrying is the [Engine]'s job.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*RawResponse, error)
}

// HTTPTransport is the [Transport] backed by net/http.
//
// Every attempt opens its own connection (keep-alives are off) and TLS
// peers are always verified. Redirects are not followed: a 3xx is
// returned to the caller like any other status. The configured proxy,
// if any, is used for every request.
type HTTPTransport struct {
	client    *http.Client
	proxy     *url.URL
	userAgent string
}

// NewHTTPTransport builds a transport from the timeouts, proxy and
// User-Agent in cfg.
func NewHTTPTransport(cfg Config) *HTTPTransport {
	tr := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DisableKeepAlives: true,
	}

	proxy := cfg.Proxy.URL()
	if proxy != nil {
		tr.Proxy = http.ProxyURL(proxy)
	}

	return &HTTPTransport{
		client: &http.Client{
			Transport:     tr,
			Timeout:       cfg.Timeout,
			CheckRedirect: noRedirect,
		},
		proxy:     proxy,
		userAgent: cfg.UserAgent,
	}
}

// noRedirect hands 3xx responses back unfollowed.
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// ProxyURL returns the proxy every request is sent through, or nil.
func (t *HTTPTransport) ProxyURL() *url.URL {
	if t.proxy == nil {
		return nil
	}
	u := *t.proxy
	return &u
}

// Execute sends req and returns the status, normalized headers and body.
// Network, DNS, TLS and timeout failures are returned as *TransportError.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*RawResponse, error) {
	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	method, host, path := httpReq.Method, httpReq.URL.Host, httpReq.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		te := classifyError(err, req.APIKey)
		hooks.OnError(ctx, method, host, path, te)
		return nil, te
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		te := classifyError(err, req.APIKey)
		hooks.OnError(ctx, method, host, path, te)
		return nil, te
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    NormalizeHeaders(resp.Header),
		Body:       body,
	}, nil
}

// buildHTTPRequest assembles the wire request:
//
//   - the URL is <url>?apikey=<key>
//   - GET, PUT and DELETE append &<query> when params are non-empty
//   - POST sends params as a form or JSON body depending on the payload mode
func buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := req.URL + "?apikey=" + url.QueryEscape(req.APIKey)

	var (
		body        io.Reader
		contentType string
	)
	switch req.Method {
	case MethodGet, MethodPut, MethodDelete:
		if q := EncodeQuery(req.Params); q != "" {
			target += "&" + q
		}
	case MethodPost:
		if req.Payload == PayloadJSON {
			data, err := EncodeJSON(req.Params)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidParam, err, "encode json payload")
			}
			body = bytes.NewReader(data)
			contentType = "application/json"
		} else {
			body = strings.NewReader(EncodeQuery(req.Params))
			contentType = "application/x-www-form-urlencoded"
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported method %q", req.Method)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), target, body)
	if err != nil {
		// The parse error would echo the URL, api key included.
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid request url %q", req.URL)
	}

	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-Id", req.RequestID)
	}
	return httpReq, nil
}

// classifyError maps a net/http failure onto a transport error code.
// The api key is scrubbed from the message.
func classifyError(err error, apiKey string) *TransportError {
	cause := err
	var ue *url.Error
	if stderrors.As(err, &ue) {
		cause = ue.Err
	}

	var (
		dnsErr     *net.DNSError
		certErr    *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		recordErr  tls.RecordHeaderError
		netErr     net.Error
		code       = errors.ErrCodeNetwork
		isTimeout  = stderrors.As(cause, &netErr) && netErr.Timeout()
		isCanceled = stderrors.Is(cause, context.Canceled)
	)
	switch {
	case isCanceled:
		code = errors.ErrCodeCanceled
	case stderrors.Is(cause, context.DeadlineExceeded), isTimeout:
		code = errors.ErrCodeTimeout
	case stderrors.As(cause, &dnsErr):
		code = errors.ErrCodeDNS
	case stderrors.Is(cause, syscall.ECONNREFUSED):
		code = errors.ErrCodeConnectionRefused
	case stderrors.As(cause, &certErr), stderrors.As(cause, &authErr),
		stderrors.As(cause, &hostErr), stderrors.As(cause, &recordErr):
		code = errors.ErrCodeTLS
	}

	msg := cause.Error()
	if apiKey != "" {
		msg = strings.ReplaceAll(msg, apiKey, "REDACTED")
		msg = strings.ReplaceAll(msg, url.QueryEscape(apiKey), "REDACTED")
	}

	return &TransportError{Code: code, Message: msg, Cause: cause}
}
