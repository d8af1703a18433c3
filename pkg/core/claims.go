package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried in a session token payload.
type Claims struct {
	ID        ID               `json:"id"`
	Username  string           `json:"username"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

// payload mirrors Claims with exp left raw, so a bad expiry never costs the
// identity.
type payload struct {
	ID       ID              `json:"id"`
	Username string          `json:"username"`
	Exp      json.RawMessage `json:"exp"`
}

var errNotObject = errors.New("payload does not start with '{'")

// DecodeUnverifiedClaims decodes the payload segment of a JWT-shaped token
// without verifying its signature. Only the middle segment is inspected; the
// header and signature may be anything. It never panics and has no side effects.
func DecodeUnverifiedClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, &DecodeError{Reason: "unexpected token shape", Err: ErrMalformedToken}
	}

	raw, err := jwt.NewParser(jwt.WithPaddingAllowed()).DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, &DecodeError{Reason: "payload is not base64url", Err: err}
	}

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Claims{}, &DecodeError{Reason: "payload is not a JSON object", Err: errNotObject}
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Claims{}, &DecodeError{Reason: "payload is not a JSON object", Err: err}
	}

	c := Claims{ID: p.ID, Username: p.Username}
	if len(p.Exp) > 0 {
		var exp *jwt.NumericDate
		if json.Unmarshal(p.Exp, &exp) == nil {
			c.ExpiresAt = exp
		}
	}
	return c, nil
}

// Session builds an authenticated session carrying the claimed identity.
func (c Claims) Session() *Session {
	s := &Session{
		Authenticated: true,
		ID:            c.ID,
		Username:      c.Username,
	}
	if c.ExpiresAt != nil {
		t := c.ExpiresAt.Time
		s.ExpiresAt = &t
	}
	return s
}
