package rest

import (
	"context"
	"net/http"

	"github.com/aretw0/notely/pkg/core"
)

// NoteAPI implements core.NoteRemote.
type NoteAPI struct {
	client *Client
}

var _ core.NoteRemote = (*NoteAPI)(nil)

// List fetches every note. A body that is not an array yields no notes.
func (n *NoteAPI) List(ctx context.Context) ([]core.Note, error) {
	raw, err := n.client.do(ctx, http.MethodGet, nil, "notes")
	if err != nil {
		return nil, err
	}
	notes, err := decodeList[core.Note](raw)
	if err != nil {
		return nil, decodeFailure(err)
	}
	return notes, nil
}

// Create posts a draft and returns the server's copy of the note.
func (n *NoteAPI) Create(ctx context.Context, draft core.NoteDraft) (core.Note, error) {
	if draft.Tags == nil {
		draft.Tags = []core.ID{}
	}
	raw, err := n.client.do(ctx, http.MethodPost, draft, "notes")
	if err != nil {
		return core.Note{}, err
	}
	var note core.Note
	if err := decodeEntity(raw, "note", &note); err != nil {
		return core.Note{}, decodeFailure(err)
	}
	return note, nil
}

// Update patches a note and returns the server's copy.
func (n *NoteAPI) Update(ctx context.Context, id core.ID, patch core.NotePatch) (core.Note, error) {
	raw, err := n.client.do(ctx, http.MethodPatch, patch, "notes", id.String())
	if err != nil {
		return core.Note{}, err
	}
	var note core.Note
	if err := decodeEntity(raw, "note", &note); err != nil {
		return core.Note{}, decodeFailure(err)
	}
	return note, nil
}

// Delete removes a note.
func (n *NoteAPI) Delete(ctx context.Context, id core.ID) error {
	_, err := n.client.do(ctx, http.MethodDelete, nil, "notes", id.String())
	return err
}
