package newsdata

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/newsdataio/newsdata-go/pkg/buildinfo"
	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/httputil"
)

// Defaults applied by [DefaultConfig].
const (
	DefaultConnectTimeout = 120 * time.Second
	DefaultTimeout        = 60 * time.Second
)

// DecodeMode selects how response bodies are decoded.
type DecodeMode int

const (
	// DecodeObject decodes into a generic tree (map[string]any, []any) and
	// keeps numbers as json.Number so large identifiers survive intact.
	DecodeObject DecodeMode = iota

	// DecodeMap decodes into plain Go containers with float64 numbers.
	DecodeMap
)

// String returns the mode name used in configuration files.
func (m DecodeMode) String() string {
	switch m {
	case DecodeObject:
		return "object"
	case DecodeMap:
		return "map"
	default:
		return "DecodeMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseDecodeMode parses "object" or "map".
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch s {
	case "", "object":
		return DecodeObject, nil
	case "map", "array":
		return DecodeMap, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown decode mode %q (want object or map)", s)
	}
}

// Proxy describes an HTTP proxy. The zero value means no proxy.
type Proxy struct {
	Host     string // Host name or address, without scheme or port
	Port     int    // Port; 0 leaves it to the scheme default
	Username string // Basic auth user (optional)
	Password string // Basic auth password (optional)
}

// Enabled reports whether a proxy host is set.
func (p Proxy) Enabled() bool { return p.Host != "" }

// URL returns the proxy as an http:// URL with credentials, or nil when
// the proxy is not enabled.
func (p Proxy) URL() *url.URL {
	if !p.Enabled() {
		return nil
	}
	host := p.Host
	if p.Port > 0 {
		host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	}
	u := &url.URL{Scheme: "http", Host: host}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// ParseProxy parses "[http://][user:pass@]host[:port]" into a Proxy.
// An empty string yields the zero Proxy.
func ParseProxy(raw string) (Proxy, error) {
	if raw == "" {
		return Proxy{}, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		u, err = url.Parse("http://" + raw)
	}
	if err != nil {
		return Proxy{}, errors.New(errors.ErrCodeInvalidConfig, "invalid proxy address")
	}
	if u.Scheme != "http" {
		return Proxy{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported proxy scheme %q (only http)", u.Scheme)
	}

	p := Proxy{Host: u.Hostname()}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return Proxy{}, errors.New(errors.ErrCodeInvalidConfig, "invalid proxy port %q", port)
		}
		p.Port = n
	}
	if u.User != nil {
		p.Username = u.User.Username()
		p.Password, _ = u.User.Password()
	}
	return p, p.Validate()
}

// Validate checks the proxy fields. The zero Proxy is valid.
func (p Proxy) Validate() error {
	if !p.Enabled() {
		return nil
	}
	if err := errors.ValidateProxyHost(p.Host); err != nil {
		return err
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidConfig, "proxy port %d out of range", p.Port)
	}
	return nil
}

// Config is the client configuration. It is a value type: the With*
// methods return a modified copy and never touch the receiver, so a
// Config can be shared freely between goroutines.
type Config struct {
	APIKey         string        // Required; sent as the apikey query parameter
	BaseURL        string        // API root, e.g. https://newsdata.io/api/1/
	ConnectTimeout time.Duration // Dial and TLS handshake timeout (0 = none)
	Timeout        time.Duration // Whole-exchange timeout per attempt (0 = none)
	MaxRetries     int           // Extra attempts on status >= 500 (0 = disabled)
	RetryDelay     time.Duration // Fixed sleep between attempts
	Decode         DecodeMode    // Body decoding mode
	Proxy          Proxy         // Optional HTTP proxy
	UserAgent      string        // User-Agent header
}

// DefaultConfig returns the configuration used when only an API key is given.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		ConnectTimeout: DefaultConnectTimeout,
		Timeout:        DefaultTimeout,
		MaxRetries:     httputil.DefaultMaxRetries,
		RetryDelay:     httputil.DefaultRetryDelay,
		Decode:         DecodeObject,
		UserAgent:      buildinfo.UserAgent(),
	}
}

// WithAPIKey returns a copy with the API key replaced.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// WithBaseURL returns a copy pointed at a different API root.
func (c Config) WithBaseURL(base string) Config {
	c.BaseURL = base
	return c
}

// WithTimeouts returns a copy with the connection and response timeouts set.
func (c Config) WithTimeouts(connect, read time.Duration) Config {
	c.ConnectTimeout = connect
	c.Timeout = read
	return c
}

// WithRetries returns a copy with the retry policy set.
func (c Config) WithRetries(maxRetries int, delay time.Duration) Config {
	c.MaxRetries = maxRetries
	c.RetryDelay = delay
	return c
}

// WithDecodeMode returns a copy with the decode mode set.
func (c Config) WithDecodeMode(m DecodeMode) Config {
	c.Decode = m
	return c
}

// WithProxy returns a copy that routes requests through p.
func (c Config) WithProxy(p Proxy) Config {
	c.Proxy = p
	return c
}

// WithoutProxy returns a copy with the proxy cleared.
func (c Config) WithoutProxy() Config {
	c.Proxy = Proxy{}
	return c
}

// WithUserAgent returns a copy with the User-Agent header set.
func (c Config) WithUserAgent(ua string) Config {
	c.UserAgent = ua
	return c
}

// Policy returns the retry policy described by the configuration.
func (c Config) Policy() httputil.Policy {
	return httputil.Policy{MaxRetries: c.MaxRetries, Delay: c.RetryDelay}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := errors.ValidateAPIKey(c.APIKey); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "base url")
	}
	if c.ConnectTimeout < 0 || c.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeouts cannot be negative")
	}
	if c.MaxRetries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max retries cannot be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry delay cannot be negative")
	}
	if c.Decode != DecodeObject && c.Decode != DecodeMap {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown decode mode %d", int(c.Decode))
	}
	return c.Proxy.Validate()
}
