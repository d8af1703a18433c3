package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/notely/pkg/core"
)

// Fallback messages recorded when the server supplies none.
const (
	MsgRegisterFailed      = "Registration failed"
	MsgLoginFailed         = "Login failed"
	MsgLogoutFailed        = "Logout failed"
	MsgUpdateAccountFailed = "Failed to update account"
	MsgDeleteAccountFailed = "Failed to delete account"
)

// SessionSnapshot is the observable state of the Session store.
// Session is nil while unauthenticated.
type SessionSnapshot struct {
	Session *core.Session
	Loading bool
	Error   string
	Version uint64
}

// SessionConfig holds the dependencies of the Session store.
type SessionConfig struct {
	Remote core.AccountRemote
	Tokens core.TokenStore
	Logger *slog.Logger
}

type transition struct {
	ctx   context.Context
	event core.SessionEvent
}

// Session owns the authentication state.
type Session struct {
	remote core.AccountRemote
	tokens core.TokenStore
	logger *slog.Logger

	mu        sync.Mutex
	session   *core.Session
	loading   bool
	err       string
	version   uint64
	lastEvent *core.SessionEvent

	changes     broadcaster[SessionSnapshot]
	transitions broadcaster[transition]
}

// NewSession creates the Session store. The initial state is decided
// synchronously from the token store: a persisted token seeds an
// authenticated session, enriched with the token's claims when they decode.
func NewSession(config SessionConfig) (*Session, error) {
	if config.Remote == nil {
		return nil, errors.New("account remote is required")
	}
	if config.Tokens == nil {
		return nil, errors.New("token store is required")
	}

	s := &Session{
		remote: config.Remote,
		tokens: config.Tokens,
		logger: config.Logger,
	}

	token, err := s.tokens.Token()
	if err != nil {
		// Only remote failures reach the store error; start signed out.
		if s.logger != nil {
			s.logger.Warn("could not read persisted token", "error", err)
		}
		return s, nil
	}
	if token != "" {
		s.session = s.deriveSession(token)
	}
	return s, nil
}

// deriveSession decodes identity from token. Decoding is best-effort: a
// malformed token still yields an authenticated session without identity.
func (s *Session) deriveSession(token string) *core.Session {
	claims, err := core.DecodeUnverifiedClaims(token)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("token payload not decodable, using minimal session", "error", err)
		}
		return &core.Session{Authenticated: true}
	}
	return claims.Session()
}

// IsAuthenticated reports whether a token is currently persisted.
func (s *Session) IsAuthenticated() bool {
	token, err := s.tokens.Token()
	return err == nil && token != ""
}

// Current returns a copy of the session, or nil when unauthenticated.
func (s *Session) Current() *core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.session)
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every state change. It returns the unsubscribe func.
func (s *Session) Subscribe(fn func(SessionSnapshot)) func() {
	return s.changes.subscribe(fn)
}

// OnTransition registers fn for sign-in, sign-out and restore transitions.
// fn runs on the goroutine that caused the transition, before the
// transitioning call returns.
func (s *Session) OnTransition(fn func(ctx context.Context, event core.SessionEvent)) func() {
	return s.transitions.subscribe(func(t transition) {
		fn(t.ctx, t.event)
	})
}

// Bootstrap announces a session seeded from a persisted token so that
// subscribed collections load. It reports whether a transition was emitted.
func (s *Session) Bootstrap(ctx context.Context) bool {
	current := s.Current()
	if current == nil {
		return false
	}
	s.emit(ctx, core.SessionRestored, current)
	return true
}

// Register creates an account. It does not establish a session.
func (s *Session) Register(ctx context.Context, username, password string) (*core.Account, error) {
	s.begin()
	account, err := s.remote.Register(ctx, core.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, s.fail(err, MsgRegisterFailed)
	}
	s.finish(nil)

	if s.logger != nil {
		s.logger.Info("account registered", "username", username)
	}
	return account, nil
}

// Login creates a session and persists the returned token.
func (s *Session) Login(ctx context.Context, username, password string) (*core.Session, error) {
	s.begin()
	result, err := s.remote.CreateSession(ctx, core.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, s.fail(err, MsgLoginFailed)
	}

	session := &core.Session{Authenticated: true}
	if result != nil && result.Token != "" {
		if err := s.tokens.SetToken(result.Token); err != nil {
			return nil, s.fail(fmt.Errorf("failed to persist session token: %w", err), MsgLoginFailed)
		}
		session = s.deriveSession(result.Token)
	}

	s.finish(func() { s.session = session })
	if s.logger != nil {
		s.logger.Info("signed in", "username", session.Username, "identity", session.HasIdentity())
	}
	s.emit(ctx, core.SessionSignedIn, session)
	return cloneSession(session), nil
}

// Logout deletes the remote session, then clears the persisted token and
// the in-memory session. A remote failure aborts the clearing.
func (s *Session) Logout(ctx context.Context) error {
	s.begin()
	if err := s.remote.DeleteSession(ctx); err != nil {
		return s.fail(err, MsgLogoutFailed)
	}
	if err := s.tokens.ClearToken(); err != nil {
		return s.fail(fmt.Errorf("failed to clear session token: %w", err), MsgLogoutFailed)
	}

	s.finish(func() { s.session = nil })
	if s.logger != nil {
		s.logger.Info("signed out")
	}
	s.emit(ctx, core.SessionSignedOut, nil)
	return nil
}

// UpdateAccount patches the current user. A username change is reflected
// in the session.
func (s *Session) UpdateAccount(ctx context.Context, patch core.AccountPatch) (*core.Account, error) {
	current := s.Current()
	if !current.HasIdentity() {
		return nil, core.ErrUnknownIdentity
	}

	s.begin()
	account, err := s.remote.UpdateUser(ctx, current.ID, patch)
	if err != nil {
		return nil, s.fail(err, MsgUpdateAccountFailed)
	}

	s.finish(func() {
		if s.session == nil || s.session.ID != current.ID {
			return
		}
		switch {
		case account != nil && account.Username != "":
			s.session.Username = account.Username
		case patch.Username != nil:
			s.session.Username = *patch.Username
		}
	})
	return account, nil
}

// DeleteAccount removes the current user, then ends the session locally.
func (s *Session) DeleteAccount(ctx context.Context) error {
	current := s.Current()
	if !current.HasIdentity() {
		return core.ErrUnknownIdentity
	}

	s.begin()
	if err := s.remote.DeleteUser(ctx, current.ID); err != nil {
		return s.fail(err, MsgDeleteAccountFailed)
	}
	if err := s.tokens.ClearToken(); err != nil {
		return s.fail(fmt.Errorf("failed to clear session token: %w", err), MsgDeleteAccountFailed)
	}

	s.finish(func() { s.session = nil })
	if s.logger != nil {
		s.logger.Info("account deleted", "id", current.ID)
	}
	s.emit(ctx, core.SessionSignedOut, nil)
	return nil
}

// ClearError clears the store error only.
func (s *Session) ClearError() {
	s.mutate(func() { s.err = "" })
}

func (s *Session) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		Session: cloneSession(s.session),
		Loading: s.loading,
		Error:   s.err,
		Version: s.version,
	}
}

func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.changes.notify(snap)
}

func (s *Session) begin() {
	s.mutate(func() { s.loading = true })
}

func (s *Session) finish(apply func()) {
	s.mutate(func() {
		s.loading = false
		if apply != nil {
			apply()
		}
	})
}

func (s *Session) fail(err error, fallback string) error {
	re, isRemote := core.AsRemote(err)
	s.mutate(func() {
		s.loading = false
		if isRemote {
			s.err = re.Display(fallback)
		}
	})

	if s.logger != nil {
		s.logger.Debug("session operation failed", "error", err)
	}
	if isRemote {
		return re.WithFallback(fallback)
	}
	return err
}

func (s *Session) emit(ctx context.Context, kind core.SessionEventType, session *core.Session) {
	event := core.SessionEvent{
		Type:      kind,
		Session:   cloneSession(session),
		Timestamp: time.Now().Unix(),
	}

	s.mu.Lock()
	recorded := event
	s.lastEvent = &recorded
	s.mu.Unlock()

	s.transitions.notify(transition{ctx: ctx, event: event})
}

func cloneSession(s *core.Session) *core.Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.ExpiresAt != nil {
		t := *s.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}
