// Package notely is the composition root of the notely client.
//
// It wires an HTTP transport, an origin-scoped token store and three
// observable stores (session, notes and tags) that mirror a remote notes
// service. Stores apply a change locally only after the server confirmed it,
// and notify subscribers with immutable snapshots.
//
// Features:
//
//   - **Session**: register, login, logout, account rename, password change
//     and deletion. The session survives restarts through the token store.
//   - **Collections**: notes and tags load on sign-in and reset on sign-out.
//   - **Views**: pure predicates (search, archive, trash, tag) plus tag globs
//     and filter expressions in pkg/views.
//   - **Forms**: pre-network validation in pkg/forms.
//
// Usage:
//
//	client, err := notely.New("https://notes.example.com/api",
//		notely.WithStateDir(dir),
//		notely.WithLogger(logger),
//	)
//	client.Bootstrap(ctx) // loads collections for a persisted session
//
//	if _, err := client.Session.Login(ctx, "alice", "secret"); err != nil {
//		// client.Session.Snapshot().Error holds the message to display
//	}
//	unsubscribe := client.Notes.Subscribe(func(s store.NotesSnapshot) {
//		render(views.Filter(s.Items, term, views.ForView(view)))
//	})
package notely
