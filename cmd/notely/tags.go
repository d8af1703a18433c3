package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/forms"
	"github.com/aretw0/notely/pkg/views"
)

var tagsJSON bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List and change tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with their note counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := openClient(cmd)
		defer client.Close()
		requireSession(client)

		tags := client.Tags.Snapshot()
		printStoreError(tags.Error)
		if tagsJSON {
			printJSON(tags.Items)
			return
		}
		notes := client.Notes.Snapshot().Items
		for _, t := range tags.Items {
			printTag(t, len(views.Where(notes, views.Tagged(t.ID))))
		}
	},
}

var tagsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		form := forms.TagName{Name: args[0]}
		if err := form.Validate(); err != nil {
			fatal("Invalid tag", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		tag, err := client.Tags.Create(ctx, form.Value())
		if err != nil {
			fatal("Failed to create tag", err)
		}
		success("Tag %s created (id %s).", tag.Name, tag.ID)
	},
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a tag",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		form := forms.TagName{Name: args[1]}
		if err := form.Validate(); err != nil {
			fatal("Invalid tag", err)
		}

		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)
		id := existingTag(client, args[0])

		if err := client.Tags.Rename(ctx, id, form.Value()); err != nil {
			fatal("Failed to rename tag", err)
		}
		success("Tag %s renamed to %s.", id, form.Value())
	},
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)
		id := existingTag(client, args[0])

		if err := client.Tags.Delete(ctx, id); err != nil {
			fatal("Failed to delete tag", err)
		}
		success("Tag %s deleted.", id)
	},
}

func existingTag(client *notely.Client, arg string) core.ID {
	id := core.ID(arg)
	if _, ok := client.Tags.Name(id); !ok {
		fatal("Tag not found", fmt.Errorf("no tag with id %q", arg))
	}
	return id
}

func init() {
	tagsListCmd.Flags().BoolVar(&tagsJSON, "json", false, "Output in JSON format")
	tagsCmd.AddCommand(tagsListCmd, tagsCreateCmd, tagsRenameCmd, tagsDeleteCmd)
	rootCmd.AddCommand(tagsCmd)
}
