package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/forms"
)

var (
	authUsername string
	authPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long:  `Create an account on the server. Registration does not sign you in.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		username := authUsername
		if username == "" {
			username = prompt("Username")
		}
		form := forms.Registration{
			Username:        username,
			Password:        secretFlag(authPassword, "Password"),
			ConfirmPassword: secretFlag(authPassword, "Confirm password"),
		}
		if err := form.Validate(); err != nil {
			fatal("Invalid registration", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()

		account, err := client.Session.Register(ctx, form.Username, form.Password)
		if err != nil {
			fatal("Registration failed", err)
		}
		success("Account '%s' created. Run `notely login` to sign in.", account.Username)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		username := authUsername
		if username == "" {
			username = prompt("Username")
		}
		form := forms.Login{Username: username, Password: secretFlag(authPassword, "Password")}
		if err := form.Validate(); err != nil {
			fatal("Invalid login", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()

		session, err := client.Session.Login(ctx, form.Username, form.Password)
		if err != nil {
			fatal("Login failed", err)
		}

		name := session.Username
		if name == "" {
			name = form.Username
		}
		notes := client.Notes.Snapshot()
		tags := client.Tags.Snapshot()
		success("Signed in as %s (%d notes, %d tags).", name, len(notes.Items), len(tags.Items))
		printStoreError(notes.Error)
		printStoreError(tags.Error)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		if err := client.Session.Logout(ctx); err != nil {
			fatal("Logout failed", err)
		}
		success("Signed out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := openClient(cmd)
		defer client.Close()

		session := client.Session.Current()
		switch {
		case session == nil:
			fmt.Println("not signed in")
		case !session.HasIdentity():
			fmt.Println("signed in (unknown user)")
		default:
			fmt.Printf("%s (id %s)\n", session.Username, session.ID)
			if session.ExpiresAt != nil {
				fmt.Printf("token expires %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
		}
	},
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username (prompted when empty)")
		cmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password (prompted when empty)")
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(logoutCmd, whoamiCmd)
}
