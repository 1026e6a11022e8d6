package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToUser converts a loosely shaped backend record into a User.
//
// The identifier is taken from "id", falling back to "_id" when "id" is
// missing or null, and to "" when both are. firstName and lastName default
// to "". Every value is coerced to a string. ToUser never fails, including
// for a nil record.
func ToUser(raw RawUser) User {
	return User{
		ID:        stringify(firstPresent(raw, "id", "_id")),
		FirstName: stringify(raw["firstName"]),
		LastName:  stringify(raw["lastName"]),
	}
}

// ToUsers normalizes a decoded JSON document that is expected to be an
// array of user records. ok is false when the document is not an array;
// elements that are not objects normalize to the zero User.
func ToUsers(doc any) (users []User, ok bool) {
	items, ok := doc.([]any)
	if !ok {
		return []User{}, false
	}
	users = make([]User, 0, len(items))
	for _, item := range items {
		raw, _ := item.(map[string]any)
		users = append(users, ToUser(raw))
	}
	return users, true
}

func firstPresent(raw RawUser, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		// integers past int64 are identifiers, not quantities: keep the digits
		if isIntegerLiteral(t.String()) {
			return t.String()
		}
		if f, err := t.Float64(); err == nil {
			return formatNumber(f, 64)
		}
		return t.String()
	case float64:
		return formatNumber(t, 64)
	case float32:
		return formatNumber(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatNumber renders f the way a browser prints a number: plain decimal
// for 1e-6 <= |f| < 1e21, otherwise exponent form without zero padding
// ("1e+21", "1.5e-7").
func formatNumber(f float64, bitSize int) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
