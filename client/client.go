package client

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/userfront/userfront/client/internal/api"
	"github.com/userfront/userfront/tokenstore"
)

const (
	// DefaultBaseURL is used when no backend URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds every request issued by the client.
	DefaultTimeout = 10 * time.Second
)

// SessionExpiredFunc is called after a 401 response has erased the stored
// token. Hosts implement it to send the user to their login page. It must
// not block for long: it runs on the goroutine that issued the request.
type SessionExpiredFunc func(ctx context.Context)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the shared HTTP facade for the user backend. It is safe for
// concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	store     tokenstore.Store
	onExpired SessionExpiredFunc
	logger    zerolog.Logger
}

// New constructs a Client for baseURL. An empty baseURL selects
// DefaultBaseURL; one trailing slash is stripped either way.
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: NormalizeBaseURL(baseURL),
		http:    &http.Client{Timeout: DefaultTimeout},
		store:   tokenstore.Noop{},
		logger:  log.Logger,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransport()
	return c, nil
}

// NormalizeBaseURL strips exactly one trailing "/" so that joining the base
// with an absolute path never yields "//".
func NormalizeBaseURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// wrapTransport installs the interceptors around whatever transport the
// options left in place. Outermost first: metrics, 401 handling, bearer
// token, then the base (possibly debug-wrapped) transport.
func (c *Client) wrapTransport() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	var rt http.RoundTripper = &bearerTransport{base: base, store: c.store, logger: &c.logger}
	rt = &unauthorizedTransport{base: rt, store: c.store, onExpired: c.onExpired, logger: &c.logger}
	c.http.Transport = &metricsTransport{base: rt}
}

// SetToken stores the bearer token used for subsequent requests.
func (c *Client) SetToken(ctx context.Context, token string) error {
	return c.store.Set(ctx, token)
}

// ClearToken erases the stored bearer token.
func (c *Client) ClearToken(ctx context.Context) error {
	return c.store.Remove(ctx)
}

// --------------------------------------------------------------------
// User operations - delegated to internal/api
// --------------------------------------------------------------------

// ListUsers returns all users. A backend answer that is not a JSON array
// yields an empty slice, not an error.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return api.ListUsers(ctx, c.http, c.baseURL)
}

// GetUser retrieves a user by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	return api.GetUser(ctx, c.http, c.baseURL, userID)
}

// GetUserByNumericID retrieves a user whose backend identifier is numeric.
func (c *Client) GetUserByNumericID(ctx context.Context, userID int64) (*User, error) {
	return api.GetUser(ctx, c.http, c.baseURL, strconv.FormatInt(userID, 10))
}

// CreateUser creates a user and returns it with its server-assigned ID.
func (c *Client) CreateUser(ctx context.Context, req NewUser) (*User, error) {
	return api.CreateUser(ctx, c.http, c.baseURL, req)
}
