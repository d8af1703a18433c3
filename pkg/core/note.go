package core

import (
	"encoding/json"
	"slices"
	"time"
)

// Note is the central entity of the domain.
// Tags reference Tag IDs; stale references are tolerated.
type Note struct {
	ID       ID         `json:"id"`
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Tags     []ID       `json:"tags,omitempty"`
	Reminder *time.Time `json:"reminder,omitempty"`
	Pinned   bool       `json:"pinned"`
	Archived bool       `json:"archived"`
	Trashed  bool       `json:"trashed"`
}

// HasTag reports whether the note references the given tag.
func (n Note) HasTag(id ID) bool {
	return slices.Contains(n.Tags, id)
}

// Clone returns a copy that shares no memory with n.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = slices.Clone(n.Tags)
	}
	if n.Reminder != nil {
		r := *n.Reminder
		c.Reminder = &r
	}
	return c
}

// NoteDraft is the body of a create request. The remote authority assigns the ID.
type NoteDraft struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Tags     []ID       `json:"tags"`
	Reminder *time.Time `json:"reminder"`
	Pinned   bool       `json:"pinned"`
	Archived bool       `json:"archived"`
	Trashed  bool       `json:"trashed"`
}

// NotePatch is a partial note. Only non-nil fields are sent and merged.
// ClearReminder sends an explicit null reminder.
type NotePatch struct {
	Title         *string
	Content       *string
	Tags          *[]ID
	Reminder      *time.Time
	ClearReminder bool
	Pinned        *bool
	Archived      *bool
	Trashed       *bool
}

// MarshalJSON emits only the fields present in the patch.
func (p NotePatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Content != nil {
		m["content"] = *p.Content
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []ID{}
		}
		m["tags"] = tags
	}
	if p.ClearReminder {
		m["reminder"] = nil
	} else if p.Reminder != nil {
		m["reminder"] = p.Reminder.UTC().Format(time.RFC3339Nano)
	}
	if p.Pinned != nil {
		m["pinned"] = *p.Pinned
	}
	if p.Archived != nil {
		m["archived"] = *p.Archived
	}
	if p.Trashed != nil {
		m["trashed"] = *p.Trashed
	}
	return json.Marshal(m)
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.Reminder == nil &&
		!p.ClearReminder && p.Pinned == nil && p.Archived == nil && p.Trashed == nil
}

// Apply merges the patch into n (shallow, patch fields win) and returns the result.
// n itself is not modified.
func (p NotePatch) Apply(n Note) Note {
	out := n.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.ClearReminder {
		out.Reminder = nil
	} else if p.Reminder != nil {
		r := *p.Reminder
		out.Reminder = &r
	}
	if p.Pinned != nil {
		out.Pinned = *p.Pinned
	}
	if p.Archived != nil {
		out.Archived = *p.Archived
	}
	if p.Trashed != nil {
		out.Trashed = *p.Trashed
	}
	return out
}
