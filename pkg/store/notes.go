package store

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/notely/pkg/core"
)

// Fallback messages recorded when the server supplies none.
const (
	MsgFetchNotesFailed = "Failed to fetch notes"
	MsgCreateNoteFailed = "Failed to create note"
	MsgUpdateNoteFailed = "Failed to update note"
	MsgDeleteNoteFailed = "Failed to delete note"
)

// SessionSource is what a collection store needs from the Session store.
type SessionSource interface {
	Current() *core.Session
	OnTransition(fn func(ctx context.Context, event core.SessionEvent)) func()
}

// CollectionConfig holds the dependencies shared by the collection stores.
type CollectionConfig struct {
	Session SessionSource
	Logger  *slog.Logger
}

// Notes mirrors the notes resource of the current user.
// Local state changes only after the remote call has succeeded.
type Notes struct {
	remote  core.NoteRemote
	session SessionSource
	state   *collection[core.Note]
	logger  *slog.Logger
	detach  func()
}

// NewNotes creates the Notes store and subscribes it to session transitions.
func NewNotes(remote core.NoteRemote, config CollectionConfig) (*Notes, error) {
	if remote == nil {
		return nil, errors.New("note remote is required")
	}
	if config.Session == nil {
		return nil, errors.New("session is required")
	}

	n := &Notes{
		remote:  remote,
		session: config.Session,
		logger:  config.Logger,
		state: newCollection("notes",
			func(n core.Note) core.ID { return n.ID },
			core.Note.Clone,
			config.Logger,
		),
	}
	n.detach = config.Session.OnTransition(func(ctx context.Context, event core.SessionEvent) {
		if err := n.Load(ctx); err != nil && n.logger != nil {
			n.logger.Warn("notes reload failed", "transition", event.String(), "error", err)
		}
	})
	return n, nil
}

// Close detaches the store from session transitions.
func (n *Notes) Close() {
	n.detach()
}

// Load replaces the collection with the remote notes while authenticated,
// or clears it without fetching otherwise.
func (n *Notes) Load(ctx context.Context) error {
	if n.session.Current() == nil {
		n.state.reset()
		return nil
	}

	n.state.begin()
	notes, err := n.remote.List(ctx)
	if err != nil {
		return n.state.fail(err, MsgFetchNotesFailed)
	}
	n.state.succeed(func() { n.state.replace(notes) })

	if n.logger != nil {
		n.logger.Debug("notes loaded", "count", len(notes))
	}
	return nil
}

// Create sends draft and appends the note returned by the server.
func (n *Notes) Create(ctx context.Context, draft core.NoteDraft) (core.Note, error) {
	n.state.begin()
	note, err := n.remote.Create(ctx, draft)
	if err != nil {
		return core.Note{}, n.state.fail(err, MsgCreateNoteFailed)
	}
	n.state.succeed(func() { n.state.appendItem(note.Clone()) })
	return note, nil
}

// Update sends patch and, once confirmed, merges it into the matching note.
func (n *Notes) Update(ctx context.Context, id core.ID, patch core.NotePatch) error {
	n.state.begin()
	if _, err := n.remote.Update(ctx, id, patch); err != nil {
		return n.state.fail(err, MsgUpdateNoteFailed)
	}
	n.state.succeed(func() { n.state.modify(id, patch.Apply) })
	return nil
}

// Delete removes a note remotely, then locally.
func (n *Notes) Delete(ctx context.Context, id core.ID) error {
	n.state.begin()
	if err := n.remote.Delete(ctx, id); err != nil {
		return n.state.fail(err, MsgDeleteNoteFailed)
	}
	n.state.succeed(func() { n.state.remove(id) })
	return nil
}

// EmptyTrash deletes every note trashed at call time, concurrently.
// Successful deletes stay applied when others fail; the first failure is
// returned and recorded as the store error.
func (n *Notes) EmptyTrash(ctx context.Context) error {
	var trashed []core.ID
	for _, note := range n.Snapshot().Items {
		if note.Trashed {
			trashed = append(trashed, note.ID)
		}
	}

	var g errgroup.Group
	for _, id := range trashed {
		g.Go(func() error {
			return n.Delete(ctx, id)
		})
	}
	err := g.Wait()

	if n.logger != nil {
		n.logger.Debug("trash emptied", "requested", len(trashed), "error", err)
	}
	return err
}

// Archive moves a note to the archive.
func (n *Notes) Archive(ctx context.Context, id core.ID) error {
	return n.Update(ctx, id, core.NotePatch{Archived: core.Ptr(true)})
}

// Unarchive moves a note out of the archive.
func (n *Notes) Unarchive(ctx context.Context, id core.ID) error {
	return n.Update(ctx, id, core.NotePatch{Archived: core.Ptr(false)})
}

// Trash moves a note to the trash.
func (n *Notes) Trash(ctx context.Context, id core.ID) error {
	return n.Update(ctx, id, core.NotePatch{Trashed: core.Ptr(true)})
}

// Restore moves a note out of the trash.
func (n *Notes) Restore(ctx context.Context, id core.ID) error {
	return n.Update(ctx, id, core.NotePatch{Trashed: core.Ptr(false)})
}

// Pin pins a note.
func (n *Notes) Pin(ctx context.Context, id core.ID) error {
	return n.Update(ctx, id, core.NotePatch{Pinned: core.Ptr(true)})
}

// Unpin unpins a note.
func (n *Notes) Unpin(ctx context.Context, id core.ID) error {
	return n.Update(ctx, id, core.NotePatch{Pinned: core.Ptr(false)})
}

// Get returns a copy of the note with id from the local collection.
func (n *Notes) Get(id core.ID) (core.Note, bool) {
	return n.state.find(id)
}

// ClearError clears the store error only.
func (n *Notes) ClearError() {
	n.state.clearError()
}

// Snapshot returns the current observable state.
func (n *Notes) Snapshot() NotesSnapshot {
	return n.state.snapshot()
}

// Subscribe registers fn for every state change. It returns the unsubscribe func.
func (n *Notes) Subscribe(fn func(NotesSnapshot)) func() {
	return n.state.changes.subscribe(fn)
}
