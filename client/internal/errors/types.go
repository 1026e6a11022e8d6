// Package errors provides the typed failures returned by the client SDK.
// Callers inspect them through the predicates below rather than by
// matching error strings.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// HTTPError reports a response whose status was not 2xx.
type HTTPError struct {
	Op         string // operation name, e.g. "list users"
	StatusCode int
	Body       string // truncated response body for debugging
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// NetworkError reports a request that produced no response: connection
// failures, timeouts and cancellations.
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s network error: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request hit a deadline.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an *HTTPError.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }

// IsTimeout reports whether err is a request that exceeded its deadline.
func IsTimeout(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
