package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notely/pkg/adapters/fs"
	"github.com/aretw0/notely/pkg/adapters/memory"
	"github.com/aretw0/notely/pkg/adapters/rest"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/store"
)

// Client is a wired set of stores talking to one notes server.
type Client struct {
	Session *store.Session
	Notes   *store.Notes
	Tags    *store.Tags

	// Transport is nil when the remotes were injected with WithRemotes.
	Transport *rest.Client
	Tokens    core.TokenStore

	logger *slog.Logger
}

// New wires the token store, the transport and the three stores.
//
//	client, err := notely.New("https://notes.example.com/api", notely.WithStateDir(dir))
//
// The session starts authenticated when a token is already persisted for the
// server's origin; call Bootstrap to load the collections for it.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tokens, err := resolveTokens(baseURL, o)
	if err != nil {
		return nil, err
	}

	c := &Client{Tokens: tokens, logger: o.logger}

	remotes := o.remotes
	if remotes == nil {
		transport, err := rest.New(rest.Config{
			BaseURL:    baseURL,
			Tokens:     tokens,
			HTTPClient: o.httpClient,
			Timeout:    o.timeout,
			UserAgent:  o.userAgent,
			Logger:     o.logger,
		})
		if err != nil {
			return nil, err
		}
		c.Transport = transport
		remotes = &Remotes{
			Accounts: transport.Accounts(),
			Notes:    transport.Notes(),
			Tags:     transport.Tags(),
		}
	} else if remotes.Accounts == nil || remotes.Notes == nil || remotes.Tags == nil {
		return nil, errors.New("remotes must provide accounts, notes and tags")
	}

	c.Session, err = store.NewSession(store.SessionConfig{
		Remote: remotes.Accounts,
		Tokens: tokens,
		Logger: o.logger,
	})
	if err != nil {
		return nil, err
	}

	collection := store.CollectionConfig{Session: c.Session, Logger: o.logger}
	if c.Notes, err = store.NewNotes(remotes.Notes, collection); err != nil {
		return nil, err
	}
	if c.Tags, err = store.NewTags(remotes.Tags, collection); err != nil {
		c.Notes.Close()
		return nil, err
	}

	return c, nil
}

// resolveTokens picks the injected store, the origin-scoped file store under
// the (possibly sandboxed) state dir, or an in-memory store.
func resolveTokens(baseURL string, o *options) (core.TokenStore, error) {
	if o.tokens != nil {
		return o.tokens, nil
	}
	if o.stateDir == "" {
		return memory.NewTokenStore(""), nil
	}

	dir := ResolveStateDir(o.stateDir, o.forceTemp || (o.devSafety && IsDevRun()))
	if dir != o.stateDir && o.logger != nil {
		o.logger.Warn("development run: state directory sandboxed", "requested", o.stateDir, "using", dir)
	}

	origin, err := fs.OriginOf(baseURL)
	if err != nil {
		return nil, fmt.Errorf("resolve token scope: %w", err)
	}
	return fs.NewTokenStore(fs.Config{Dir: dir, Origin: origin, Logger: o.logger})
}

// Bootstrap emits the restore transition for a persisted session, loading
// notes and tags before it returns. It reports whether a session was restored.
func (c *Client) Bootstrap(ctx context.Context) bool {
	restored := c.Session.Bootstrap(ctx)
	if c.logger != nil {
		c.logger.Debug("client bootstrapped", "restored", restored)
	}
	return restored
}

// Close detaches the collections from the session.
func (c *Client) Close() {
	c.Notes.Close()
	c.Tags.Close()
}

// Components lists every introspectable part of the client.
func (c *Client) Components() []introspection.Component {
	out := []introspection.Component{c.Session, c.Notes, c.Tags}
	if c.Transport != nil {
		out = append(out, c.Transport)
	}
	if comp, ok := c.Tokens.(introspection.Component); ok {
		out = append(out, comp)
	}
	return out
}

// State implements introspection.Introspectable. It maps each component
// type to that component's state.
func (c *Client) State() any {
	state := make(map[string]any)
	for _, comp := range c.Components() {
		if intro, ok := comp.(introspection.Introspectable); ok {
			state[comp.ComponentType()] = intro.State()
		}
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "client"
}

var (
	_ introspection.Introspectable = (*Client)(nil)
	_ introspection.Component      = (*Client)(nil)
)
