package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/internal/platform"
)

// openClient builds a client from the loaded config and restores a
// persisted session, loading notes and tags for it.
func openClient(cmd *cobra.Command) (*notely.Client, context.Context) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		fatal("Invalid config", err)
	}

	dir := cfg.StateDir
	if dir == "" {
		if dir, err = platform.DefaultStateDir(); err != nil {
			fatal("Failed to resolve state directory", err)
		}
	}

	client, err := notely.New(cfg.Server,
		notely.WithStateDir(dir),
		notely.WithTimeout(timeout),
		notely.WithUserAgent(cfg.UserAgent+"/"+notely.Version),
		notely.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Failed to initialize notely", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client.Bootstrap(ctx)
	return client, ctx
}

// requireSession exits unless the client holds a session.
func requireSession(client *notely.Client) {
	if !client.Session.IsAuthenticated() {
		fatal("Not signed in", errNotSignedIn)
	}
}
