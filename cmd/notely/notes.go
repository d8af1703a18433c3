package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/forms"
	"github.com/aretw0/notely/pkg/views"
)

var (
	listSearch   string
	listArchived bool
	listTrashed  bool
	listTag      string
	listWhere    string
	listJSON     bool

	noteTitle         string
	noteContent       string
	noteTags          []string
	notePin           bool
	noteRemind        string
	noteClearTags     bool
	noteClearReminder bool
)

// reminderLayouts are tried in order after RFC 3339.
var reminderLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List and change notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, pinned first",
	Long: `List notes. Without --archived, --trashed or --tag every note is shown.
--tag accepts a glob over tag names ("work*", "{home,errands}").
--where takes a boolean expression, e.g. 'pinned && hasReminder'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := openClient(cmd)
		defer client.Close()
		requireSession(client)

		notes := client.Notes.Snapshot()
		tags := client.Tags.Snapshot().Items
		printStoreError(notes.Error)

		var structural views.Predicate
		switch {
		case listArchived:
			structural = views.ForView(views.View{Kind: views.Archive})
		case listTrashed:
			structural = views.ForView(views.View{Kind: views.Trash})
		case listTag != "":
			matched, err := views.MatchTags(tags, listTag)
			if err != nil {
				fatal("Invalid tag pattern", err)
			}
			structural = views.TaggedAny(matched)
		}

		var where views.Predicate
		if listWhere != "" {
			p, err := views.Compile(listWhere, tags)
			if err != nil {
				fatal("Invalid --where", err)
			}
			where = p
		}

		result := views.Sorted(views.Where(views.Filter(notes.Items, listSearch, structural), where))
		if listJSON {
			printJSON(result)
			return
		}
		for _, n := range result {
			printNote(n, tags)
		}
	},
}

var notesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		form := forms.Note{
			Title:   noteTitle,
			Content: noteContent,
			Tags:    resolveTags(client, noteTags),
			Pinned:  notePin,
		}
		if noteRemind != "" {
			form.Reminder = parseReminder(noteRemind)
		}
		draft, err := form.Draft()
		if err != nil {
			fatal("Note not created", err)
		}

		note, err := client.Notes.Create(ctx, draft)
		if err != nil {
			fatal("Failed to create note", err)
		}
		success("Note %s created.", note.ID)
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change fields of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)
		id := existingNote(client, args[0])

		var patch core.NotePatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			patch.Title = core.Ptr(strings.TrimSpace(noteTitle))
		}
		if flags.Changed("content") {
			patch.Content = core.Ptr(noteContent)
		}
		if flags.Changed("tag") || noteClearTags {
			patch.Tags = core.Ptr(resolveTags(client, noteTags))
		}
		if flags.Changed("pin") {
			patch.Pinned = core.Ptr(notePin)
		}
		if noteClearReminder {
			patch.ClearReminder = true
		} else if noteRemind != "" {
			patch.Reminder = parseReminder(noteRemind)
		}
		if patch.IsEmpty() {
			fatal("Nothing to change", fmt.Errorf("pass at least one of --title, --content, --tag, --pin, --remind"))
		}

		if err := client.Notes.Update(ctx, id, patch); err != nil {
			fatal("Failed to update note", err)
		}
		success("Note %s updated.", id)
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)
		id := existingNote(client, args[0])

		if err := client.Notes.Delete(ctx, id); err != nil {
			fatal("Failed to delete note", err)
		}
		success("Note %s deleted.", id)
	},
}

var notesEmptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: "Delete every trashed note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, ctx := openClient(cmd)
		defer client.Close()
		requireSession(client)

		before := len(client.Notes.Snapshot().Items)
		err := client.Notes.EmptyTrash(ctx)
		removed := before - len(client.Notes.Snapshot().Items)
		if err != nil {
			fatal(fmt.Sprintf("Trash partially emptied (%d deleted)", removed), err)
		}
		success("%d notes deleted.", removed)
	},
}

// flagCommand builds a one-argument command toggling a note flag.
func flagCommand(use, short, done string, op func(*notely.Client) func(context.Context, core.ID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, ctx := openClient(cmd)
			defer client.Close()
			requireSession(client)
			id := existingNote(client, args[0])

			if err := op(client)(ctx, id); err != nil {
				fatal("Failed to update note", err)
			}
			success("Note %s %s.", id, done)
		},
	}
}

func existingNote(client *notely.Client, arg string) core.ID {
	id := core.ID(arg)
	if _, ok := client.Notes.Get(id); !ok {
		fatal("Note not found", fmt.Errorf("no note with id %q", arg))
	}
	return id
}

// resolveTags maps tag names to ids. Unknown names are an error; create the
// tag first with `notely tags create`.
func resolveTags(client *notely.Client, names []string) []core.ID {
	tags := client.Tags.Snapshot().Items
	ids := make([]core.ID, 0, len(names))
	for _, name := range names {
		found := false
		for _, t := range tags {
			if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
				ids = append(ids, t.ID)
				found = true
				break
			}
		}
		if !found {
			fatal("Unknown tag", fmt.Errorf("no tag named %q", name))
		}
	}
	return ids
}

func parseReminder(value string) *time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	for _, layout := range reminderLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	fatal("Invalid reminder", fmt.Errorf("%q is not RFC 3339 or one of %v", value, reminderLayouts))
	return nil
}

func init() {
	listFlags := notesListCmd.Flags()
	listFlags.StringVarP(&listSearch, "search", "s", "", "Only notes whose title or content contains this text")
	listFlags.BoolVar(&listArchived, "archived", false, "Only archived notes")
	listFlags.BoolVar(&listTrashed, "trashed", false, "Only trashed notes")
	listFlags.StringVar(&listTag, "tag", "", "Only notes carrying a tag whose name matches this glob")
	listFlags.StringVar(&listWhere, "where", "", "Filter expression over note fields")
	listFlags.BoolVar(&listJSON, "json", false, "Output in JSON format")
	notesListCmd.MarkFlagsMutuallyExclusive("archived", "trashed", "tag")

	for _, cmd := range []*cobra.Command{notesCreateCmd, notesEditCmd} {
		cmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Title")
		cmd.Flags().StringVarP(&noteContent, "content", "c", "", "Content")
		cmd.Flags().StringSliceVar(&noteTags, "tag", nil, "Tag name (repeatable)")
		cmd.Flags().BoolVar(&notePin, "pin", false, "Pin the note")
		cmd.Flags().StringVar(&noteRemind, "remind", "", "Reminder time (RFC 3339 or 'YYYY-MM-DD HH:MM')")
	}
	notesEditCmd.Flags().BoolVar(&noteClearTags, "clear-tags", false, "Remove every tag")
	notesEditCmd.Flags().BoolVar(&noteClearReminder, "clear-reminder", false, "Remove the reminder")
	notesEditCmd.MarkFlagsMutuallyExclusive("tag", "clear-tags")
	notesEditCmd.MarkFlagsMutuallyExclusive("remind", "clear-reminder")

	notesCmd.AddCommand(
		notesListCmd,
		notesCreateCmd,
		notesEditCmd,
		notesDeleteCmd,
		notesEmptyTrashCmd,
		flagCommand("archive", "Move a note to the archive", "archived",
			func(c *notely.Client) func(context.Context, core.ID) error { return c.Notes.Archive }),
		flagCommand("unarchive", "Move a note out of the archive", "unarchived",
			func(c *notely.Client) func(context.Context, core.ID) error { return c.Notes.Unarchive }),
		flagCommand("trash", "Move a note to the trash", "trashed",
			func(c *notely.Client) func(context.Context, core.ID) error { return c.Notes.Trash }),
		flagCommand("restore", "Move a note out of the trash", "restored",
			func(c *notely.Client) func(context.Context, core.ID) error { return c.Notes.Restore }),
		flagCommand("pin", "Pin a note", "pinned",
			func(c *notely.Client) func(context.Context, core.ID) error { return c.Notes.Pin }),
		flagCommand("unpin", "Unpin a note", "unpinned",
			func(c *notely.Client) func(context.Context, core.ID) error { return c.Notes.Unpin }),
	)
	rootCmd.AddCommand(notesCmd)
}
