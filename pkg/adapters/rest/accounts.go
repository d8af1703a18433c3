package rest

import (
	"context"
	"net/http"

	"github.com/aretw0/notely/pkg/core"
)

// AccountAPI implements core.AccountRemote.
type AccountAPI struct {
	client *Client
}

var _ core.AccountRemote = (*AccountAPI)(nil)

// Register creates a user account.
func (a *AccountAPI) Register(ctx context.Context, c core.Credentials) (*core.Account, error) {
	raw, err := a.client.do(ctx, http.MethodPost, c, "users")
	if err != nil {
		return nil, err
	}
	account := &core.Account{Username: c.Username}
	if err := decodeEntity(raw, "user", account); err != nil {
		return nil, decodeFailure(err)
	}
	return account, nil
}

// CreateSession logs in. The token may be absent from the reply.
func (a *AccountAPI) CreateSession(ctx context.Context, c core.Credentials) (*core.LoginResult, error) {
	raw, err := a.client.do(ctx, http.MethodPost, c, "sessions")
	if err != nil {
		return nil, err
	}
	result := &core.LoginResult{}
	if err := decodeEntity(raw, "session", result); err != nil {
		return nil, decodeFailure(err)
	}
	return result, nil
}

// DeleteSession logs out.
func (a *AccountAPI) DeleteSession(ctx context.Context) error {
	_, err := a.client.do(ctx, http.MethodDelete, nil, "sessions")
	return err
}

// UpdateUser patches the user record.
func (a *AccountAPI) UpdateUser(ctx context.Context, id core.ID, patch core.AccountPatch) (*core.Account, error) {
	raw, err := a.client.do(ctx, http.MethodPatch, patch, "users", id.String())
	if err != nil {
		return nil, err
	}
	account := &core.Account{ID: id}
	if patch.Username != nil {
		account.Username = *patch.Username
	}
	if err := decodeEntity(raw, "user", account); err != nil {
		return nil, decodeFailure(err)
	}
	return account, nil
}

// DeleteUser removes the account.
func (a *AccountAPI) DeleteUser(ctx context.Context, id core.ID) error {
	_, err := a.client.do(ctx, http.MethodDelete, nil, "users", id.String())
	return err
}
