package client

import "github.com/userfront/userfront/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	User    = types.User
	NewUser = types.NewUser
	RawUser = types.RawUser
)

// ToUser normalizes a loosely shaped backend record; it never fails.
func ToUser(raw RawUser) User { return types.ToUser(raw) }

// ValidateNewUser reports missing names before a create round trip.
func ValidateNewUser(u NewUser) error { return types.ValidateNewUser(u) }

// FilterUsers keeps users whose ID or names contain query, ignoring case.
func FilterUsers(users []User, query string) []User { return types.FilterUsers(users, query) }
