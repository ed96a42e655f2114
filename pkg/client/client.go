// Package client implements the client side of the A2A JSON-RPC HTTP+JSON
// transport: request dispatch with the single challenge-driven retry,
// response demultiplexing for single-JSON and event-stream modes, and the
// typed error taxonomy.
package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kadirpekel/agentwire/pkg/a2a"
	"github.com/kadirpekel/agentwire/pkg/auth"
)

const (
	contentTypeJSON        = "application/json"
	contentTypeEventStream = "text/event-stream"

	defaultUserAgent = "agentwire"
)

// Client is an A2A JSON-RPC transport client bound to a single endpoint
// URL. It is safe for concurrent use; the only shared mutable state is the
// capability's header cache.
type Client struct {
	endpoint   string
	httpClient *http.Client
	capability auth.Capability
	logger     *slog.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the underlying HTTP client. Timeout and deadline
// policy belong to the caller; the transport imposes none of its own.
// Note: a client-level Timeout also bounds streaming reads, so subscribe
// callers should prefer per-call contexts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCapability injects the authentication capability consulted for
// headers and 401 challenges. Without one, every 401 is terminal.
func WithCapability(capability auth.Capability) Option {
	return func(c *Client) {
		c.capability = capability
	}
}

// WithLogger overrides the logger used for stream anomalies.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the given A2A JSON-RPC endpoint URL.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint URL must be http or https, got %q", endpoint)
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the endpoint URL the client dispatches to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// rawResult is the undecoded JSON-RPC result of a single-response call.
// It may be JSON null for methods whose result is optional.
type rawResult = json.RawMessage

// unmarshalTask decodes a result payload into a task object.
func unmarshalTask(result rawResult) (*a2a.Task, error) {
	var task a2a.Task
	if err := json.Unmarshal(result, &task); err != nil {
		return nil, &ProtocolError{Reason: "result is not a task object", Err: err}
	}
	return &task, nil
}
