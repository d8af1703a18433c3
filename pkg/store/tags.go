package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/notely/pkg/core"
)

// Fallback messages recorded when the server supplies none.
const (
	MsgFetchTagsFailed = "Failed to fetch tags"
	MsgCreateTagFailed = "Failed to create tag"
	MsgUpdateTagFailed = "Failed to update tag"
	MsgDeleteTagFailed = "Failed to delete tag"
)

// Tags mirrors the tags resource of the current user.
type Tags struct {
	remote  core.TagRemote
	session SessionSource
	state   *collection[core.Tag]
	logger  *slog.Logger
	detach  func()
}

// NewTags creates the Tags store and subscribes it to session transitions.
func NewTags(remote core.TagRemote, config CollectionConfig) (*Tags, error) {
	if remote == nil {
		return nil, errors.New("tag remote is required")
	}
	if config.Session == nil {
		return nil, errors.New("session is required")
	}

	t := &Tags{
		remote:  remote,
		session: config.Session,
		logger:  config.Logger,
		state: newCollection("tags",
			func(t core.Tag) core.ID { return t.ID },
			func(t core.Tag) core.Tag { return t },
			config.Logger,
		),
	}
	t.detach = config.Session.OnTransition(func(ctx context.Context, event core.SessionEvent) {
		if err := t.Load(ctx); err != nil && t.logger != nil {
			t.logger.Warn("tags reload failed", "transition", event.String(), "error", err)
		}
	})
	return t, nil
}

// Close detaches the store from session transitions.
func (t *Tags) Close() {
	t.detach()
}

// Load replaces the collection with the remote tags while authenticated,
// or clears it without fetching otherwise.
func (t *Tags) Load(ctx context.Context) error {
	if t.session.Current() == nil {
		t.state.reset()
		return nil
	}

	t.state.begin()
	tags, err := t.remote.List(ctx)
	if err != nil {
		return t.state.fail(err, MsgFetchTagsFailed)
	}
	t.state.succeed(func() { t.state.replace(tags) })
	return nil
}

// Create adds a tag and appends the tag returned by the server.
func (t *Tags) Create(ctx context.Context, name string) (core.Tag, error) {
	t.state.begin()
	tag, err := t.remote.Create(ctx, name)
	if err != nil {
		return core.Tag{}, t.state.fail(err, MsgCreateTagFailed)
	}
	t.state.succeed(func() { t.state.appendItem(tag) })
	return tag, nil
}

// Rename changes the name of a tag once the server confirms it.
func (t *Tags) Rename(ctx context.Context, id core.ID, name string) error {
	t.state.begin()
	if _, err := t.remote.Update(ctx, id, name); err != nil {
		return t.state.fail(err, MsgUpdateTagFailed)
	}
	t.state.succeed(func() {
		t.state.modify(id, func(tag core.Tag) core.Tag {
			tag.Name = name
			return tag
		})
	})
	return nil
}

// Delete removes a tag remotely, then locally. Notes keep their stale
// references to it.
func (t *Tags) Delete(ctx context.Context, id core.ID) error {
	t.state.begin()
	if err := t.remote.Delete(ctx, id); err != nil {
		return t.state.fail(err, MsgDeleteTagFailed)
	}
	t.state.succeed(func() { t.state.remove(id) })
	return nil
}

// Name resolves a tag id to its display name.
func (t *Tags) Name(id core.ID) (string, bool) {
	tag, ok := t.state.find(id)
	return tag.Name, ok
}

// ClearError clears the store error only.
func (t *Tags) ClearError() {
	t.state.clearError()
}

// Snapshot returns the current observable state.
func (t *Tags) Snapshot() TagsSnapshot {
	return t.state.snapshot()
}

// Subscribe registers fn for every state change. It returns the unsubscribe func.
func (t *Tags) Subscribe(fn func(TagsSnapshot)) func() {
	return t.state.changes.subscribe(fn)
}
