package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/store"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the session, stores and transport",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := openClient(cmd)
		defer client.Close()

		if statusJSON {
			printJSON(client.State())
			return
		}

		fmt.Printf("server:  %s\n", cfg.Server)
		session := client.Session.State().(store.SessionState)
		switch {
		case !session.Authenticated:
			fmt.Println("session: signed out")
		case session.Username != "":
			fmt.Printf("session: signed in as %s\n", session.Username)
		default:
			fmt.Println("session: signed in")
		}
		printCollection("notes", client.Notes.State().(store.CollectionState))
		printCollection("tags", client.Tags.State().(store.CollectionState))
		printStoreError(session.Error)
		if origins := storedOrigins(client.Tokens); len(origins) > 0 {
			fmt.Printf("tokens:  %s\n", strings.Join(origins, ", "))
		}
	},
}

// originLister is implemented by the file-backed token store.
type originLister interface {
	Origins() ([]string, error)
}

// storedOrigins lists every server with a persisted token, or nil when the
// token store does not keep an index.
func storedOrigins(tokens core.TokenStore) []string {
	lister, ok := tokens.(originLister)
	if !ok {
		return nil
	}
	origins, err := lister.Origins()
	if err != nil {
		slog.Warn("could not list stored tokens", "error", err)
		return nil
	}
	return origins
}

func printCollection(name string, s store.CollectionState) {
	fmt.Printf("%-8s %d loaded", name+":", s.Count)
	if s.LastLoad != nil {
		fmt.Printf(" at %s", s.LastLoad.Local().Format("15:04:05"))
	}
	fmt.Println()
	printStoreError(s.Error)
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}
