package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// TokenStoreState exposes internal state for observability.
// The token itself is never included.
type TokenStoreState struct {
	Path      string     `json:"path"`
	Origin    string     `json:"origin"`
	HasToken  bool       `json:"has_token"`
	IndexSize int        `json:"index_size"`
	LastWrite *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (s *TokenStore) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, has := s.cache.Get(s.origin)
	return TokenStoreState{
		Path:      s.Path,
		Origin:    s.origin,
		HasToken:  has,
		IndexSize: s.cache.Len(),
		LastWrite: s.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (s *TokenStore) ComponentType() string {
	return "token-store"
}

var _ introspection.Introspectable = (*TokenStore)(nil)
var _ introspection.Component = (*TokenStore)(nil)
