package rest

import (
	"context"
	"net/http"

	"github.com/aretw0/notely/pkg/core"
)

// TagAPI implements core.TagRemote.
type TagAPI struct {
	client *Client
}

var _ core.TagRemote = (*TagAPI)(nil)

type tagBody struct {
	Name string `json:"name"`
}

// List fetches every tag. A body that is not an array yields no tags.
func (t *TagAPI) List(ctx context.Context) ([]core.Tag, error) {
	raw, err := t.client.do(ctx, http.MethodGet, nil, "tags")
	if err != nil {
		return nil, err
	}
	tags, err := decodeList[core.Tag](raw)
	if err != nil {
		return nil, decodeFailure(err)
	}
	return tags, nil
}

// Create posts a new tag name.
func (t *TagAPI) Create(ctx context.Context, name string) (core.Tag, error) {
	raw, err := t.client.do(ctx, http.MethodPost, tagBody{Name: name}, "tags")
	if err != nil {
		return core.Tag{}, err
	}
	tag := core.Tag{Name: name}
	if err := decodeEntity(raw, "tag", &tag); err != nil {
		return core.Tag{}, decodeFailure(err)
	}
	return tag, nil
}

// Update renames a tag.
func (t *TagAPI) Update(ctx context.Context, id core.ID, name string) (core.Tag, error) {
	raw, err := t.client.do(ctx, http.MethodPatch, tagBody{Name: name}, "tags", id.String())
	if err != nil {
		return core.Tag{}, err
	}
	tag := core.Tag{ID: id, Name: name}
	if err := decodeEntity(raw, "tag", &tag); err != nil {
		return core.Tag{}, decodeFailure(err)
	}
	return tag, nil
}

// Delete removes a tag.
func (t *TagAPI) Delete(ctx context.Context, id core.ID) error {
	_, err := t.client.do(ctx, http.MethodDelete, nil, "tags", id.String())
	return err
}
