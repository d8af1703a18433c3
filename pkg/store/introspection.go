package store

import (
	"time"

	"github.com/aretw0/introspection"
)

// SessionState exposes the Session store for observability.
type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
	LastEvent     string `json:"last_event,omitempty"`
	Listeners     int    `json:"listeners"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Authenticated: s.session != nil,
		Loading:       s.loading,
		Error:         s.err,
		Listeners:     s.transitions.len(),
	}
	if s.session != nil {
		state.Username = s.session.Username
	}
	if s.lastEvent != nil {
		state.LastEvent = s.lastEvent.String()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session-store"
}

// CollectionState exposes a collection store for observability.
type CollectionState struct {
	Count    int        `json:"count"`
	Loading  bool       `json:"loading"`
	Error    string     `json:"error,omitempty"`
	Loads    int64      `json:"loads"`
	LastLoad *time.Time `json:"last_load,omitempty"`
	Version  uint64     `json:"version"`
}

func (c *collection[T]) introspect() CollectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CollectionState{
		Count:    len(c.items),
		Loading:  c.loading,
		Error:    c.err,
		Loads:    c.loads,
		LastLoad: c.lastLoad,
		Version:  c.version,
	}
}

// State implements introspection.Introspectable.
func (n *Notes) State() any {
	return n.state.introspect()
}

// ComponentType implements introspection.Component.
func (n *Notes) ComponentType() string {
	return "notes-store"
}

// State implements introspection.Introspectable.
func (t *Tags) State() any {
	return t.state.introspect()
}

// ComponentType implements introspection.Component.
func (t *Tags) ComponentType() string {
	return "tags-store"
}

var (
	_ introspection.Introspectable = (*Session)(nil)
	_ introspection.Component      = (*Session)(nil)
	_ introspection.Introspectable = (*Notes)(nil)
	_ introspection.Component      = (*Notes)(nil)
	_ introspection.Introspectable = (*Tags)(nil)
	_ introspection.Component      = (*Tags)(nil)
)
