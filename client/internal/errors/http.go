package errors

import (
	"io"
	"net/http"
	"strings"
)

// maxBodySnippet bounds how much of an error body is kept on HTTPError.
const maxBodySnippet = 4 << 10

// NewHTTPError builds an HTTPError from a non-2xx response. The body is read
// up to maxBodySnippet bytes; the caller still owns closing it.
func NewHTTPError(op string, resp *http.Response) *HTTPError {
	var body string
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
		body = strings.TrimSpace(string(b))
	}
	return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: body}
}

// NewNetworkError wraps a transport-level failure for operation op.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}
