package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// User is the strict internal shape of a user record.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// NewUser holds the creatable subset of a user; the server assigns the ID.
type NewUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RawUser is a user-like object exactly as the backend sent it.
// Field names and value types are not trusted; see ToUser.
type RawUser map[string]any
