package types

import "strings"

// FilterUsers keeps users whose ID, first name or last name contains query,
// ignoring case. A blank query returns users unchanged.
func FilterUsers(users []User, query string) []User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		for _, v := range [...]string{u.ID, u.FirstName, u.LastName} {
			if v != "" && strings.Contains(strings.ToLower(v), q) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}
