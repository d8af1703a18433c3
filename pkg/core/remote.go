package core

import "context"

// AccountRemote defines the contract for the users and sessions resources.
// Implementations raise *RemoteError on failure.
type AccountRemote interface {
	// Register creates a user account. It does not establish a session.
	Register(ctx context.Context, c Credentials) (*Account, error)

	// CreateSession logs in and returns the opaque session token.
	CreateSession(ctx context.Context, c Credentials) (*LoginResult, error)

	// DeleteSession logs out.
	DeleteSession(ctx context.Context) error

	// UpdateUser changes account fields.
	UpdateUser(ctx context.Context, id ID, patch AccountPatch) (*Account, error)

	// DeleteUser removes the account.
	DeleteUser(ctx context.Context, id ID) error
}

// NoteRemote defines the contract for the notes resource.
type NoteRemote interface {
	// List returns every note of the current user.
	List(ctx context.Context) ([]Note, error)

	// Create stores a draft and returns the note as the server recorded it.
	Create(ctx context.Context, draft NoteDraft) (Note, error)

	// Update applies a partial change to a note.
	Update(ctx context.Context, id ID, patch NotePatch) (Note, error)

	// Delete removes a note permanently.
	Delete(ctx context.Context, id ID) error
}

// TagRemote defines the contract for the tags resource.
type TagRemote interface {
	List(ctx context.Context) ([]Tag, error)
	Create(ctx context.Context, name string) (Tag, error)
	Update(ctx context.Context, id ID, name string) (Tag, error)
	Delete(ctx context.Context, id ID) error
}

// TokenStore is the durable slot holding the opaque session token.
// An empty token means "not authenticated".
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}
