package client

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/userfront/userfront/tokenstore"
)

// bearerTransport attaches the stored token as a bearer Authorization
// header. A missing token, or a store that cannot be read, leaves the
// request untouched.
type bearerTransport struct {
	base   http.RoundTripper
	store  tokenstore.Store
	logger *zerolog.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.store.Get(req.Context())
	if err != nil {
		t.logger.Debug().Err(err).Str("url", req.URL.String()).Msg("token store unavailable, sending request without credentials")
		token = ""
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// unauthorizedTransport erases the stored token and fires the
// session-expired hook on every 401 response. The response itself is
// returned unchanged so the caller still sees the failure.
type unauthorizedTransport struct {
	base      http.RoundTripper
	store     tokenstore.Store
	onExpired SessionExpiredFunc
	logger    *zerolog.Logger
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	t.expire(req)
	return resp, nil
}

func (t *unauthorizedTransport) expire(req *http.Request) {
	ctx := req.Context()
	sessionExpirationsTotal.Inc()
	if err := t.store.Remove(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("failed to erase token after 401")
	}
	t.logger.Info().Str("method", req.Method).Str("url", req.URL.String()).Msg("session expired")
	if t.onExpired == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			t.logger.Error().Interface("panic", rec).Msg("session expired hook panicked")
		}
	}()
	t.onExpired(ctx)
}

// metricsTransport counts requests by method and outcome.
type metricsTransport struct{ base http.RoundTripper }

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(req.Method, code).Inc()
	return resp, err
}
