// Package fs persists the session token on the local filesystem.
//
// Tokens live in a single JSON index under the state directory, keyed by the
// server origin so one state directory can hold sessions for several servers.
package fs

import (
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notely/pkg/core"
)

// DefaultFileName is the index file name inside the state directory.
const DefaultFileName = "tokens.json"

// Config holds the configuration for the filesystem token store.
type Config struct {
	Dir      string // State directory; created on first write with 0700.
	Origin   string // Scope key, usually the result of OriginOf(baseURL).
	FileName string // Defaults to DefaultFileName.
	Logger   *slog.Logger
}

// TokenStore implements core.TokenStore on top of the token index.
type TokenStore struct {
	Path   string
	origin string
	cache  *cache
	logger *slog.Logger

	mu        sync.Mutex
	lastWrite *time.Time
}

// NewTokenStore creates a token store scoped to config.Origin.
func NewTokenStore(config Config) (*TokenStore, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("state directory is required")
	}
	if config.Origin == "" {
		return nil, fmt.Errorf("origin is required")
	}
	name := config.FileName
	if name == "" {
		name = DefaultFileName
	}
	path := filepath.Join(config.Dir, name)

	return &TokenStore{
		Path:   path,
		origin: config.Origin,
		cache:  newCache(path),
		logger: config.Logger,
	}, nil
}

// OriginOf reduces a base URL to its scheme://host form.
func OriginOf(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: scheme and host are required", rawURL)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// Origin returns the scope key of the store.
func (s *TokenStore) Origin() string {
	return s.origin
}

// Token returns the persisted token, or "" when none is stored.
func (s *TokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Load(); err != nil {
		return "", err
	}
	entry, ok := s.cache.Get(s.origin)
	if !ok {
		return "", nil
	}
	return entry.Token, nil
}

// SetToken persists token. An empty token clears the slot.
func (s *TokenStore) SetToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Load(); err != nil {
		return err
	}
	now := time.Now().UTC()
	s.cache.Set(s.origin, &indexEntry{Token: token, SavedAt: now})
	if err := s.cache.Save(); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.lastWrite = &now

	if s.logger != nil {
		s.logger.Debug("token persisted", "origin", s.origin, "path", s.Path)
	}
	return nil
}

// ClearToken removes the token for this origin. Clearing an empty slot is a no-op.
func (s *TokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Load(); err != nil {
		return err
	}
	if !s.cache.Delete(s.origin) {
		return nil
	}
	if err := s.cache.Save(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	now := time.Now().UTC()
	s.lastWrite = &now

	if s.logger != nil {
		s.logger.Debug("token cleared", "origin", s.origin, "path", s.Path)
	}
	return nil
}

// Origins lists every origin with a stored token in the index.
func (s *TokenStore) Origins() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Load(); err != nil {
		return nil, err
	}
	return s.cache.Origins(), nil
}

var _ core.TokenStore = (*TokenStore)(nil)
