package client

import (
	apierrors "github.com/userfront/userfront/client/internal/errors"
	"github.com/userfront/userfront/client/internal/types"
)

// Re-export SDK error types so callers compare against a single package.
type (
	HTTPError    = apierrors.HTTPError
	NetworkError = apierrors.NetworkError
)

var (
	ErrFirstNameRequired = types.ErrFirstNameRequired
	ErrLastNameRequired  = types.ErrLastNameRequired
)

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool { return apierrors.IsUnauthorized(err) }

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return apierrors.IsNotFound(err) }

// IsTimeout reports whether err is a request that ran past its deadline.
func IsTimeout(err error) bool { return apierrors.IsTimeout(err) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return apierrors.StatusCode(err) }
