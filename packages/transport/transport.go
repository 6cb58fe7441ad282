// Package transport provisions the shared, authenticated HTTP handle the
// request pipeline executes against.
package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/harnesskit/packages/urlutil"
)

const (
	// DefaultTimeout bounds every request made through a Handle.
	DefaultTimeout = 100 * time.Second
	// DefaultMaxResponseBytes caps how much of a response body is buffered.
	DefaultMaxResponseBytes = 50 << 20 // 50 MiB
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// InvalidAddressError reports a base address that is not an absolute http or
// https URL. It is raised at provisioning time, before any network activity.
type InvalidAddressError struct {
	Address string
	Reason  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid base address %q: %s", e.Address, e.Reason)
}

// Handle is the shared, pooled HTTP client every pipeline call goes through.
// It is bound to one base address and one credential strategy when
// provisioned and is safe for concurrent use; callers never mutate it
// afterwards. Provision one Handle per client instance and share it: the
// Handle owns the connection pool, and rebuilding it per request defeats
// connection reuse and socket-exhaustion protection.
type Handle struct {
	baseURL          *url.URL
	client           *http.Client
	strategy         CredentialStrategy
	timeout          time.Duration
	maxResponseBytes int64
	defaultHeaders   map[string]string
	validateSSL      bool
	roundTripper     http.RoundTripper
}

type Option func(*Handle)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Handle) {
		h.timeout = d
	}
}

// WithMaxResponseBytes overrides the response buffering ceiling.
func WithMaxResponseBytes(n int64) Option {
	return func(h *Handle) {
		h.maxResponseBytes = n
	}
}

// WithDefaultHeader sets a header stamped on every request that does not set
// it itself.
func WithDefaultHeader(key, value string) Option {
	return func(h *Handle) {
		h.defaultHeaders[key] = value
	}
}

// WithValidateSSL enables or disables TLS certificate validation.
func WithValidateSSL(validate bool) Option {
	return func(h *Handle) {
		h.validateSSL = validate
	}
}

// WithRoundTripper replaces the pooled transport, for auth schemes that carry
// their own negotiation or for tests.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(h *Handle) {
		h.roundTripper = rt
	}
}

// Provision validates the base address eagerly and builds the Handle shared by
// all subsequent calls.
func Provision(baseAddress string, strategy CredentialStrategy, opts ...Option) (*Handle, error) {
	if err := urlutil.ValidateURL(baseAddress); err != nil {
		return nil, &InvalidAddressError{Address: baseAddress, Reason: err.Error()}
	}
	base, err := url.Parse(baseAddress)
	if err != nil {
		return nil, &InvalidAddressError{Address: baseAddress, Reason: err.Error()}
	}

	h := &Handle{
		baseURL:          base,
		strategy:         strategy,
		timeout:          DefaultTimeout,
		maxResponseBytes: DefaultMaxResponseBytes,
		defaultHeaders:   map[string]string{"Accept": "application/json"},
		validateSSL:      true,
	}

	for _, opt := range opts {
		opt(h)
	}

	rt := h.roundTripper
	if rt == nil {
		pooled := &http.Transport{
			MaxIdleConns:        DefaultMaxIdleConns,
			MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		}
		if !h.validateSSL {
			pooled.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}
		rt = pooled
	}

	h.client = &http.Client{
		Transport: rt,
		Timeout:   h.timeout,
	}

	return h, nil
}

// BaseURL returns the address the Handle was provisioned for.
func (h *Handle) BaseURL() string {
	return h.baseURL.String()
}

// Timeout returns the request timeout bound to the Handle.
func (h *Handle) Timeout() time.Duration {
	return h.timeout
}

// MaxResponseBytes returns the response buffering ceiling.
func (h *Handle) MaxResponseBytes() int64 {
	return h.maxResponseBytes
}

// Resolve turns a request path into an absolute URL against the base address.
// Absolute http(s) URLs pass through unchanged.
func (h *Handle) Resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return h.baseURL.String() + path
	}
	return h.baseURL.ResolveReference(ref).String()
}

// Prepare stamps the Handle's default headers and pre-authentication onto an
// outgoing request. Headers already set on the request win over defaults, and
// an explicit Authorization header is never overwritten. Pre-authentication
// attaches the credential up front instead of waiting for a 401 challenge.
func (h *Handle) Prepare(req *http.Request) {
	for k, v := range h.defaultHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	if req.Header.Get("Authorization") != "" {
		return
	}
	if cred, ok := h.strategy.lookup(req.URL.Host); ok {
		req.SetBasicAuth(cred.Username, cred.Password)
	}
}

// Do executes a prepared request through the shared pool.
func (h *Handle) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}
