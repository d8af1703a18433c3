// Package memory provides a process-local token store, used by tests and by
// clients that must not touch the disk.
package memory

import (
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notely/pkg/core"
)

// TokenStore keeps the session token in memory.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore returns a store seeded with token (may be empty).
func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

// Token implements core.TokenStore.
func (s *TokenStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// SetToken implements core.TokenStore.
func (s *TokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// ClearToken implements core.TokenStore.
func (s *TokenStore) ClearToken() error {
	return s.SetToken("")
}

// State implements introspection.Introspectable.
func (s *TokenStore) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{"has_token": s.token != ""}
}

// ComponentType implements introspection.Component.
func (s *TokenStore) ComponentType() string {
	return "token-store"
}

var (
	_ core.TokenStore              = (*TokenStore)(nil)
	_ introspection.Introspectable = (*TokenStore)(nil)
	_ introspection.Component      = (*TokenStore)(nil)
)
