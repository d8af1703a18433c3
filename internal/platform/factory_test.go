package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/internal/platform"
	"github.com/aretw0/notely/internal/testserver"
	"github.com/aretw0/notely/pkg/adapters/fs"
	"github.com/aretw0/notely/pkg/adapters/memory"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/store"
)

func newServer(t *testing.T) *testserver.Server {
	t.Helper()
	srv := testserver.New()
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_Wiring(t *testing.T) {
	srv := newServer(t)

	t.Run("In Memory Tokens By Default", func(t *testing.T) {
		c, err := platform.New(srv.BaseURL())
		require.NoError(t, err)
		defer c.Close()

		assert.IsType(t, &memory.TokenStore{}, c.Tokens)
		require.NotNil(t, c.Transport)
		assert.Equal(t, srv.BaseURL(), c.Transport.BaseURL())
		assert.False(t, c.Session.IsAuthenticated())
	})

	t.Run("State Dir Uses File Store", func(t *testing.T) {
		dir := t.TempDir()
		c, err := platform.New(srv.BaseURL(), platform.WithStateDir(dir))
		require.NoError(t, err)
		defer c.Close()

		tokens, ok := c.Tokens.(*fs.TokenStore)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, fs.DefaultFileName), tokens.Path)
	})

	t.Run("Forced Sandbox", func(t *testing.T) {
		c, err := platform.New(srv.BaseURL(),
			platform.WithStateDir("/nonexistent/notely-state"),
			platform.WithForceTemp(true),
		)
		require.NoError(t, err)
		defer c.Close()

		tokens := c.Tokens.(*fs.TokenStore)
		assert.Equal(t, filepath.Join(os.TempDir(), platform.DevDirName, "notely-state", fs.DefaultFileName), tokens.Path)
	})

	t.Run("Invalid Base URL", func(t *testing.T) {
		_, err := platform.New("not a url", platform.WithStateDir(t.TempDir()))
		assert.Error(t, err)
	})

	t.Run("Partial Remotes", func(t *testing.T) {
		_, err := platform.New("", platform.WithRemotes(platform.Remotes{}))
		assert.Error(t, err)
	})
}

func TestClient_EndToEnd(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()
	ctx := context.Background()

	c, err := platform.New(srv.BaseURL(), platform.WithStateDir(dir), platform.WithTimeout(5*time.Second))
	require.NoError(t, err)

	_, err = c.Session.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.False(t, c.Session.IsAuthenticated(), "register must not sign in")

	_, err = c.Session.Login(ctx, "alice", "wrong")
	var re *core.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Invalid username or password", c.Session.Snapshot().Error)

	session, err := c.Session.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	_, err = c.Notes.Create(ctx, core.NoteDraft{Title: "first", Tags: []core.ID{}})
	require.NoError(t, err)
	tag, err := c.Tags.Create(ctx, "work")
	require.NoError(t, err)
	assert.Len(t, srv.Notes("alice"), 1)
	c.Close()

	// A second client over the same state dir resumes the session.
	resumed, err := platform.New(srv.BaseURL(), platform.WithStateDir(dir))
	require.NoError(t, err)
	defer resumed.Close()

	current := resumed.Session.Current()
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)
	assert.Empty(t, resumed.Notes.Snapshot().Items, "collections wait for Bootstrap")

	require.True(t, resumed.Bootstrap(ctx))
	assert.Len(t, resumed.Notes.Snapshot().Items, 1)
	assert.Equal(t, []core.Tag{tag}, resumed.Tags.Snapshot().Items)

	require.NoError(t, resumed.Session.Logout(ctx))
	assert.Nil(t, resumed.Session.Current())
	assert.Empty(t, resumed.Notes.Snapshot().Items)
	assert.Empty(t, resumed.Tags.Snapshot().Items)

	token, err := resumed.Tokens.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestClient_Transitions(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	c, err := platform.New(srv.BaseURL())
	require.NoError(t, err)
	defer c.Close()

	source, stop := c.Transitions(4)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	require.NoError(t, source.Start(runCtx))

	_, err = c.Session.Register(ctx, "bob", "pw")
	require.NoError(t, err)
	_, err = c.Session.Login(ctx, "bob", "pw")
	require.NoError(t, err)
	require.NoError(t, c.Session.Logout(ctx))

	var got []string
	for i := 0; i < 2; i++ {
		select {
		case e := <-source.Events():
			got = append(got, e.String())
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for session events")
		}
	}
	assert.Equal(t, []string{string(core.SessionSignedIn), string(core.SessionSignedOut)}, got)

	stop()
	stop()
	select {
	case _, ok := <-source.Events():
		assert.False(t, ok, "events close after stop")
	case <-time.After(2 * time.Second):
		t.Fatal("events did not close after stop")
	}
}

func TestClient_State(t *testing.T) {
	srv := newServer(t)

	c, err := platform.New(srv.BaseURL(), platform.WithTokenStore(memory.NewTokenStore("")))
	require.NoError(t, err)
	defer c.Close()

	state, ok := c.State().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, state, "session-store")
	assert.Contains(t, state, "notes-store")
	assert.Contains(t, state, "tags-store")
	assert.Contains(t, state, "transport")
	assert.Contains(t, state, "token-store")

	notes, ok := state["notes-store"].(store.CollectionState)
	require.True(t, ok)
	assert.Zero(t, notes.Count)
	assert.Equal(t, "client", c.ComponentType())
}
