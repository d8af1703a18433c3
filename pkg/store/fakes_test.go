package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/adapters/memory"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/store"
)

const aliceToken = "header.eyJpZCI6IjEiLCJ1c2VybmFtZSI6ImFsaWNlIn0.sig"

// fakeAccounts implements core.AccountRemote in memory.
type fakeAccounts struct {
	mu sync.Mutex

	token   string
	account core.Account

	registerErr, loginErr, logoutErr, updateErr, deleteErr error

	calls   []string
	patches []core.AccountPatch
}

func (f *fakeAccounts) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAccounts) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAccounts) Register(ctx context.Context, c core.Credentials) (*core.Account, error) {
	f.record("register")
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &core.Account{ID: "99", Username: c.Username}, nil
}

func (f *fakeAccounts) CreateSession(ctx context.Context, c core.Credentials) (*core.LoginResult, error) {
	f.record("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &core.LoginResult{Token: f.token}, nil
}

func (f *fakeAccounts) DeleteSession(ctx context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeAccounts) UpdateUser(ctx context.Context, id core.ID, patch core.AccountPatch) (*core.Account, error) {
	f.record("update:" + id.String())
	f.mu.Lock()
	f.patches = append(f.patches, patch)
	f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	account := f.account
	account.ID = id
	if patch.Username != nil {
		account.Username = *patch.Username
	}
	return &account, nil
}

func (f *fakeAccounts) DeleteUser(ctx context.Context, id core.ID) error {
	f.record("delete:" + id.String())
	return f.deleteErr
}

// fakeNotes implements core.NoteRemote in memory. The server copy of a created
// note carries a server-assigned id and a server-computed title.
type fakeNotes struct {
	mu sync.Mutex

	server []core.Note
	nextID int

	listErr, createErr, updateErr error
	deleteErr                     map[core.ID]error

	// hook runs inside every remote call, before the result is returned.
	hook func(op string, id core.ID)

	listCalls   int
	deleteCalls []core.ID
}

func (f *fakeNotes) run(op string, id core.ID) {
	f.mu.Lock()
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(op, id)
	}
}

func (f *fakeNotes) List(ctx context.Context) ([]core.Note, error) {
	f.run("list", "")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Note, len(f.server))
	for i, n := range f.server {
		out[i] = n.Clone()
	}
	return out, nil
}

func (f *fakeNotes) Create(ctx context.Context, draft core.NoteDraft) (core.Note, error) {
	f.run("create", "")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return core.Note{}, f.createErr
	}
	f.nextID++
	note := core.Note{
		ID:       core.ID(fmt.Sprintf("srv-%d", f.nextID)),
		Title:    draft.Title + " (saved)",
		Content:  draft.Content,
		Tags:     draft.Tags,
		Reminder: draft.Reminder,
		Pinned:   draft.Pinned,
	}
	f.server = append(f.server, note)
	return note.Clone(), nil
}

func (f *fakeNotes) Update(ctx context.Context, id core.ID, patch core.NotePatch) (core.Note, error) {
	f.run("update", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return core.Note{}, f.updateErr
	}
	for i, n := range f.server {
		if n.ID == id {
			f.server[i] = patch.Apply(n)
			return f.server[i].Clone(), nil
		}
	}
	return core.Note{}, &core.RemoteError{Status: 404, Message: "Note not found"}
}

func (f *fakeNotes) Delete(ctx context.Context, id core.ID) error {
	f.run("delete", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	for i, n := range f.server {
		if n.ID == id {
			f.server = append(f.server[:i:i], f.server[i+1:]...)
			break
		}
	}
	return nil
}

// fakeTags implements core.TagRemote in memory.
type fakeTags struct {
	mu sync.Mutex

	server []core.Tag
	nextID int

	listErr, createErr, updateErr, deleteErr error
	listCalls                                int
}

func (f *fakeTags) List(ctx context.Context) ([]core.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]core.Tag{}, f.server...), nil
}

func (f *fakeTags) Create(ctx context.Context, name string) (core.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return core.Tag{}, f.createErr
	}
	f.nextID++
	tag := core.Tag{ID: core.ID(fmt.Sprintf("t%d", f.nextID)), Name: name}
	f.server = append(f.server, tag)
	return tag, nil
}

func (f *fakeTags) Update(ctx context.Context, id core.ID, name string) (core.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return core.Tag{}, f.updateErr
	}
	return core.Tag{ID: id, Name: name}, nil
}

func (f *fakeTags) Delete(ctx context.Context, id core.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

type harness struct {
	accounts    *fakeAccounts
	notesRemote *fakeNotes
	tagsRemote  *fakeTags
	tokens      *memory.TokenStore
	session     *store.Session
	notes       *store.Notes
	tags        *store.Tags
}

// newHarness wires the three stores over in-memory fakes. A non-empty token
// is treated as already persisted.
func newHarness(t testing.TB, token string, notes []core.Note) *harness {
	t.Helper()
	h := &harness{
		accounts:    &fakeAccounts{token: aliceToken},
		notesRemote: &fakeNotes{server: notes, deleteErr: map[core.ID]error{}},
		tagsRemote:  &fakeTags{},
		tokens:      memory.NewTokenStore(token),
	}

	var err error
	h.session, err = store.NewSession(store.SessionConfig{Remote: h.accounts, Tokens: h.tokens})
	require.NoError(t, err)
	h.notes, err = store.NewNotes(h.notesRemote, store.CollectionConfig{Session: h.session})
	require.NoError(t, err)
	h.tags, err = store.NewTags(h.tagsRemote, store.CollectionConfig{Session: h.session})
	require.NoError(t, err)
	return h
}

// signedIn returns a harness whose session was restored and whose
// collections have loaded.
func signedIn(t testing.TB, notes []core.Note) *harness {
	t.Helper()
	h := newHarness(t, aliceToken, notes)
	require.True(t, h.session.Bootstrap(context.Background()))
	return h
}

func sampleNotes() []core.Note {
	return []core.Note{
		{ID: "1", Title: "Groceries", Content: "milk, eggs", Tags: []core.ID{"t1"}},
		{ID: "2", Title: "Ideas", Content: "Build a Go client", Pinned: true},
		{ID: "3", Title: "Old", Content: "archived stuff", Archived: true},
		{ID: "4", Title: "Junk", Content: "trash me", Trashed: true},
		{ID: "5", Title: "More junk", Content: "", Trashed: true, Tags: []core.ID{"t2"}},
	}
}

func remoteErr(status int, msg string) error {
	return &core.RemoteError{Status: status, Message: msg}
}
