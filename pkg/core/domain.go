// Package core holds the domain types and the contracts between the client
// stores and the remote authority.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID identifies an entity. Identity is always assigned by the remote authority,
// never generated on the client.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Tag is a user-defined label. Name uniqueness is not enforced client-side.
type Tag struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Account is the user record returned by the users resource.
type Account struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

// AccountPatch carries the user fields to change. Nil fields are not sent.
type AccountPatch struct {
	Username        *string `json:"username,omitempty"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
	Password        *string `json:"password,omitempty"`
}

// Credentials is the body of the register and login requests.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the body returned by the sessions resource.
type LoginResult struct {
	Token string `json:"token"`
}

// Session is the current user's authenticated identity as known to the client.
// It only exists while authenticated; ID and Username are best-effort and may
// be empty when the token payload could not be decoded.
type Session struct {
	Authenticated bool       `json:"isAuthenticated"`
	ID            ID         `json:"id,omitempty"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// HasIdentity reports whether the session knows which user it belongs to.
func (s *Session) HasIdentity() bool {
	return s != nil && s.ID != ""
}

// SessionEventType represents the kind of session transition.
type SessionEventType string

const (
	// SessionRestored is emitted when a persisted token seeds the session at startup.
	SessionRestored SessionEventType = "RESTORE"
	// SessionSignedIn is emitted after a successful login.
	SessionSignedIn SessionEventType = "SIGN_IN"
	// SessionSignedOut is emitted after logout or account deletion.
	SessionSignedOut SessionEventType = "SIGN_OUT"
)

// SessionEvent represents a session transition.
type SessionEvent struct {
	Type      SessionEventType
	Session   *Session // nil after sign-out
	Timestamp int64    // Unix timestamp
}

// Authenticated reports whether the transition entered an authenticated state.
func (e SessionEvent) Authenticated() bool {
	return e.Session != nil && e.Session.Authenticated
}

// String implements fmt.Stringer.
func (e SessionEvent) String() string {
	return string(e.Type)
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
