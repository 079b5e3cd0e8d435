package newsdata

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/httputil"
	"github.com/newsdataio/newsdata-go/pkg/observability"
)

// Engine runs calls through a [Transport] under the retry policy of its
// [Config], decoding each attempt's body and keeping the [Response]
// record of the most recent call.
type Engine struct {
	cfg       Config
	transport Transport
	logger    *log.Logger
	sleep     httputil.SleepFunc
	newID     func() string

	mu   sync.Mutex
	last *Response
}

// Option customizes an [Engine].
type Option func(*Engine)

// WithTransport replaces the default [HTTPTransport].
func WithTransport(t Transport) Option {
	return func(e *Engine) { e.transport = t }
}

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSleep replaces the sleep between retry attempts.
func WithSleep(fn httputil.SleepFunc) Option {
	return func(e *Engine) { e.sleep = fn }
}

// WithRequestID sets the generator for X-Request-Id values.
func WithRequestID(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine validates cfg and returns an Engine. Unless replaced with
// [WithTransport], requests go through an [HTTPTransport] built from cfg.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
		sleep:  httputil.Sleep,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transport == nil {
		e.transport = NewHTTPTransport(cfg)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// LastResponse returns the record of the most recent call, or nil before
// the first call.
func (e *Engine) LastResponse() *Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Call issues method against path (relative to the configured base URL)
// and returns the record of the call.
//
// Only status codes >= 500 are retried, and only when the configuration
// allows it. 4xx responses and exhausted retries are returned as ordinary
// records with a nil error. Transport failures end the call at once and
// are returned as *TransportError. A body that is not valid JSON yields
// a DECODE_ERROR after the retry loop has settled; the record still
// carries the status, headers and raw body.
func (e *Engine) Call(ctx context.Context, method Method, path string, params Params, payload PayloadMode) (*Response, error) {
	endpoint := EndpointURL(e.cfg.BaseURL, path)
	req := &Request{
		Method:    method,
		URL:       endpoint,
		Params:    params,
		APIKey:    e.cfg.APIKey,
		Payload:   payload,
		RequestID: e.newID(),
	}

	resp := &Response{Path: endpoint, RequestID: req.RequestID}
	policy := e.cfg.Policy()
	hooks := observability.Retry()

	var decodeErr error
	attempts, err := httputil.Do(ctx, policy, e.sleep, func(ctx context.Context, n int) (int, error) {
		if n > 0 {
			e.logger.Debug("Retrying request", "path", path, "attempt", n+1, "status", resp.StatusCode, "delay", policy.Delay)
			hooks.OnRetry(ctx, path, n, resp.StatusCode, policy.Delay)
		}

		raw, err := e.transport.Execute(ctx, req)
		if err != nil {
			e.logger.Debug("Request failed", "path", path, "attempt", n+1, "err", err)
			return 0, err
		}

		resp.StatusCode = raw.StatusCode
		resp.Headers = raw.Headers
		resp.Raw = raw.Body
		resp.Body, decodeErr = decodeBody(e.cfg.Decode, raw.Body)

		e.logger.Debug("Response", "method", method, "path", path, "status", raw.StatusCode, "bytes", len(raw.Body), "request_id", req.RequestID)
		return raw.StatusCode, nil
	})
	resp.Attempts = attempts

	e.mu.Lock()
	e.last = resp
	e.mu.Unlock()

	hooks.OnComplete(ctx, path, attempts, resp.StatusCode, err)
	if err != nil {
		return resp, err
	}
	if decodeErr != nil && resp.StatusCode >= 500 {
		e.logger.Debug("Undecodable server error body", "path", path, "status", resp.StatusCode, "bytes", len(resp.Raw))
		return resp, nil
	}
	if decodeErr != nil {
		return resp, errors.Wrap(errors.ErrCodeDecode, decodeErr, "decode %s response (status %d)", path, resp.StatusCode)
	}
	return resp, nil
}
