package newsdata

import (
	"context"
	"strings"
)

// DefaultBaseURL is the root of version 1 of the API.
const DefaultBaseURL = "https://newsdata.io/api/1/"

// Endpoint paths relative to the base URL.
const (
	PathLatest  = "news"
	PathArchive = "news/archive"
	PathSources = "sources"
	PathCrypto  = "crypto"
)

// EndpointURL joins base and path with exactly one slash between them.
func EndpointURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Client exposes the named API operations. It holds an [Engine] rather
// than extending it; every operation is a GET that forwards params
// unchanged.
type Client struct {
	engine *Engine
	opts   []Option
}

// NewClient returns a client using [DefaultConfig] for apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	return New(DefaultConfig(apiKey), opts...)
}

// New returns a client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	e, err := NewEngine(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{engine: e, opts: opts}, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config { return c.engine.Config() }

// WithConfig returns a new Client for cfg built with the same options.
// The receiver is left untouched. Without [WithTransport] the new client
// gets a transport built from cfg (proxy and timeouts included); a
// transport passed with WithTransport is reused as is.
func (c *Client) WithConfig(cfg Config) (*Client, error) {
	return New(cfg, c.opts...)
}

// LastResponse returns the record of the most recent call.
func (c *Client) LastResponse() *Response { return c.engine.LastResponse() }

// LatestNews queries the latest news endpoint.
// Typical params: q, qInTitle, country, category, language, domain, page.
func (c *Client) LatestNews(ctx context.Context, params Params) (any, error) {
	return c.Get(ctx, PathLatest, params)
}

// Archive queries the news archive endpoint.
// Typical params: q, from_date, to_date, country, category, language.
func (c *Client) Archive(ctx context.Context, params Params) (any, error) {
	return c.Get(ctx, PathArchive, params)
}

// Sources lists news sources.
// Typical params: country, category, language.
func (c *Client) Sources(ctx context.Context, params Params) (any, error) {
	return c.Get(ctx, PathSources, params)
}

// Crypto queries the crypto news endpoint.
// Typical params: q, coin, tag, language.
func (c *Client) Crypto(ctx context.Context, params Params) (any, error) {
	return c.Get(ctx, PathCrypto, params)
}

// Get issues a GET against any path under the base URL and returns the
// decoded body.
func (c *Client) Get(ctx context.Context, path string, params Params) (any, error) {
	resp, err := c.engine.Call(ctx, MethodGet, path, params, PayloadForm)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Post issues a POST against any path under the base URL, sending params
// as a form or JSON body.
func (c *Client) Post(ctx context.Context, path string, params Params, payload PayloadMode) (any, error) {
	resp, err := c.engine.Call(ctx, MethodPost, path, params, payload)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Do issues any supported method and returns the full record.
func (c *Client) Do(ctx context.Context, method Method, path string, params Params, payload PayloadMode) (*Response, error) {
	return c.engine.Call(ctx, method, path, params, payload)
}
