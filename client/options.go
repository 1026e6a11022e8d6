package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/userfront/userfront/tokenstore"
)

// Option configures a Client during construction in New.
//
// Options are applied before the interceptor transports are installed, so
// transport-related options (like debug logging) end up underneath the
// bearer-token and 401 wrappers.
type Option func(*Client) error

// WithHTTPClient injects a custom *http.Client. The client is copied; its
// transport is wrapped, not replaced. A zero Timeout is raised to
// DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		cp := *hc
		if cp.Timeout == 0 {
			cp.Timeout = DefaultTimeout
		}
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout overrides DefaultTimeout. The value must be greater than
// zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithTokenStore sets where the bearer token is read from and erased.
// Without it the client never sends credentials.
func WithTokenStore(s tokenstore.Store) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("nil token store")
		}
		c.store = s
		return nil
	}
}

// WithSessionExpired registers the hook run after a 401 erased the token.
func WithSessionExpired(fn SessionExpiredFunc) Option {
	return func(c *Client) error {
		c.onExpired = fn
		return nil
	}
}

// WithLogger replaces the global zerolog logger for client diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments: bodies of user
// records end up in the logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if !enabled {
			return nil
		}
		// env auto-enable and an explicit option may both ask for it
		if _, already := c.http.Transport.(*debugTransport); already {
			return nil
		}
		transport := c.http.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: transport}
		return nil
	}
}
