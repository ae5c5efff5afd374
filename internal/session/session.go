// Package session holds the client-side authentication state: who is logged in
// and with which access token.
package session

import "strings"

// RoleAdmin is the role tag the backend assigns to administrators.
const RoleAdmin = "ADMIN"

// User is the identity record returned by the backend. It is used for display
// and coarse UI gating only; the server stays authoritative.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

// IsZero reports whether the record carries no identity.
func (u User) IsZero() bool {
	return strings.TrimSpace(u.ID) == ""
}

// IsAdmin reports whether the role tag is exactly ADMIN.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is an immutable snapshot of the store.
type Session struct {
	User        *User
	AccessToken string
}

// IsAuthenticated is true iff both the user and the access token are set.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.AccessToken != ""
}
