// Package tokenstore holds the bearer credential used by the client SDK.
//
// A Store keeps at most one token under the fixed key Key. The client reads
// it before every request and removes it when the backend answers 401;
// hosting applications write it at login.
package tokenstore

import (
	"context"
	"errors"
)

// Key is the name the token is stored under.
const Key = "token"

// ErrUnavailable is returned when the backing storage cannot be reached.
// The client treats it as "no token" for outgoing requests.
var ErrUnavailable = errors.New("token storage unavailable")

// Store is a get/set/remove capability for a single bearer token.
// Get returns "" and a nil error when no token is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// Noop stores nothing. It stands in for hosts without persistent storage.
type Noop struct{}

func (Noop) Get(context.Context) (string, error) { return "", nil }
func (Noop) Set(context.Context, string) error   { return nil }
func (Noop) Remove(context.Context) error        { return nil }
