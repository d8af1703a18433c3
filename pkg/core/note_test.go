package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/core"
)

func TestNote_DecodeServerShapes(t *testing.T) {
	body := `[
		{"id": 12, "title": "Groceries", "content": "milk", "tags": ["3", 4], "pinned": true},
		{"id": "abc", "title": "Plan", "content": "", "reminder": "2024-05-01T10:00:00Z", "archived": true, "trashed": false}
	]`

	var notes []core.Note
	require.NoError(t, json.Unmarshal([]byte(body), &notes))
	require.Len(t, notes, 2)

	assert.Equal(t, core.ID("12"), notes[0].ID)
	assert.Equal(t, []core.ID{"3", "4"}, notes[0].Tags)
	assert.True(t, notes[0].Pinned)
	assert.Nil(t, notes[0].Reminder)

	assert.Equal(t, core.ID("abc"), notes[1].ID)
	require.NotNil(t, notes[1].Reminder)
	assert.True(t, notes[1].Reminder.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.Empty(t, notes[1].Tags)
}

func TestNotePatch_MarshalOnlySetFields(t *testing.T) {
	t.Run("Single Flag", func(t *testing.T) {
		raw, err := json.Marshal(core.NotePatch{Archived: core.Ptr(false)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"archived": false}`, string(raw))
	})

	t.Run("Clear Reminder Sends Null", func(t *testing.T) {
		raw, err := json.Marshal(core.NotePatch{ClearReminder: true, Title: core.Ptr("x")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"reminder": null, "title": "x"}`, string(raw))
	})

	t.Run("Empty Tags Stay An Array", func(t *testing.T) {
		var none []core.ID
		raw, err := json.Marshal(core.NotePatch{Tags: &none})
		require.NoError(t, err)
		assert.JSONEq(t, `{"tags": []}`, string(raw))
	})

	t.Run("Pointer Receiver", func(t *testing.T) {
		p := &core.NotePatch{Pinned: core.Ptr(true)}
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"pinned": true}`, string(raw))
	})
}

func TestNotePatch_Apply(t *testing.T) {
	reminder := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	base := core.Note{
		ID:       "1",
		Title:    "Title",
		Content:  "Body",
		Tags:     []core.ID{"a"},
		Reminder: &reminder,
	}

	t.Run("Only Patched Fields Change", func(t *testing.T) {
		got := core.NotePatch{Trashed: core.Ptr(true)}.Apply(base)

		want := base.Clone()
		want.Trashed = true
		assert.Equal(t, want, got)
	})

	t.Run("Does Not Alias Input", func(t *testing.T) {
		tags := []core.ID{"b", "c"}
		got := core.NotePatch{Tags: &tags}.Apply(base)
		tags[0] = "mutated"

		assert.Equal(t, []core.ID{"b", "c"}, got.Tags)
		assert.Equal(t, []core.ID{"a"}, base.Tags)
	})

	t.Run("Clear Reminder", func(t *testing.T) {
		got := core.NotePatch{ClearReminder: true}.Apply(base)
		assert.Nil(t, got.Reminder)
		assert.NotNil(t, base.Reminder)
	})

	t.Run("Empty Patch", func(t *testing.T) {
		p := core.NotePatch{}
		assert.True(t, p.IsEmpty())
		assert.Equal(t, base, p.Apply(base))
	})
}

func TestRemoteError_Messages(t *testing.T) {
	withServerMsg := &core.RemoteError{Status: 409, Message: "Tag already exists"}
	assert.Equal(t, "Tag already exists", withServerMsg.WithFallback("Failed to create tag").Error())
	assert.Equal(t, "Tag already exists", withServerMsg.Display("Failed to create tag"))

	bare := &core.RemoteError{Status: 500}
	assert.Equal(t, "remote request failed with status 500", bare.Error())
	assert.Equal(t, "Failed to create tag", bare.WithFallback("Failed to create tag").Error())
	assert.Empty(t, bare.Fallback, "WithFallback must not modify the receiver")

	wrapped := error(bare.WithFallback("x"))
	re, ok := core.AsRemote(wrapped)
	require.True(t, ok)
	assert.Equal(t, 500, re.Status)
}
