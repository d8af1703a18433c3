package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/forms"
)

var (
	currentPassword string
	newPassword     string
	deleteConfirm   string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the signed-in account",
}

var accountRenameCmd = &cobra.Command{
	Use:   "rename [username]",
	Short: "Change your username",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		form := forms.UsernameChange{Username: args[0]}
		if err := form.Validate(); err != nil {
			fatal("Invalid username", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		account, err := client.Session.UpdateAccount(ctx, form.Patch())
		if err != nil {
			fatal("Failed to rename account", err)
		}
		success("Username changed to %s.", account.Username)
	},
}

var accountPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		form := forms.PasswordChange{
			CurrentPassword: secretFlag(currentPassword, "Current password"),
			NewPassword:     secretFlag(newPassword, "New password"),
			ConfirmPassword: secretFlag(newPassword, "Confirm new password"),
		}
		if err := form.Validate(); err != nil {
			fatal("Invalid password change", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		if _, err := client.Session.UpdateAccount(ctx, form.Patch()); err != nil {
			fatal("Failed to change password", err)
		}
		success("Password changed.")
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account and every note in it",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		confirmation := deleteConfirm
		if confirmation == "" {
			confirmation = prompt("Type " + forms.DeleteConfirmation + " to confirm")
		}
		form := forms.AccountDeletion{Confirmation: confirmation}
		if err := form.Validate(); err != nil {
			fatal("Account not deleted", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		if err := client.Session.DeleteAccount(ctx); err != nil {
			fatal("Failed to delete account", err)
		}
		success("Account deleted.")
	},
}

func init() {
	accountPasswordCmd.Flags().StringVar(&currentPassword, "current", "", "Current password (prompted when empty)")
	accountPasswordCmd.Flags().StringVar(&newPassword, "new", "", "New password (prompted when empty)")
	accountDeleteCmd.Flags().StringVar(&deleteConfirm, "confirm", "", "Confirmation word, "+forms.DeleteConfirmation)

	accountCmd.AddCommand(accountRenameCmd, accountPasswordCmd, accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)
}
