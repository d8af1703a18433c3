package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownIdentity = errors.New("session has no user identity")
	ErrMalformedToken  = errors.New("token is not three dot-separated segments")
)

// RemoteError is raised by the transport when a request fails.
// Message holds the server-supplied message when the response carried one;
// Fallback is the operation-specific text a store attaches before re-raising.
type RemoteError struct {
	Status   int
	Message  string
	Fallback string
	Err      error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Fallback != "":
		return e.Fallback
	case e.Status > 0:
		return fmt.Sprintf("remote request failed with status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("remote request failed: %v", e.Err)
	default:
		return "remote request failed"
	}
}

// Unwrap supports errors.Is / errors.As on the underlying cause.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Display returns the server message, or fallback when there is none.
func (e *RemoteError) Display(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// WithFallback returns a copy of e carrying the given fallback message.
func (e *RemoteError) WithFallback(fallback string) *RemoteError {
	c := *e
	c.Fallback = fallback
	return &c
}

// AsRemote extracts a *RemoteError from err's chain.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// ValidationError is a client-side, pre-network input failure.
// It never reaches the transport and never touches store state.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// DecodeError reports a token payload that could not be decoded.
type DecodeError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode token: %s: %v", e.Reason, e.Err)
	}
	return "decode token: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
