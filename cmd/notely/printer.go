package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/views"
)

var errNotSignedIn = errors.New("run `notely login` first")

var (
	idColor    = color.New(color.FgHiBlack)
	pinColor   = color.New(color.FgYellow, color.Bold)
	tagColor   = color.New(color.FgCyan)
	stateColor = color.New(color.FgMagenta)
)

func success(format string, a ...any) {
	color.Green(format, a...)
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}

// printStoreError reports a non-fatal store error left in a snapshot.
func printStoreError(msg string) {
	if msg != "" {
		color.Yellow("warning: %s", msg)
	}
}

func printNote(n core.Note, tags []core.Tag) {
	var b strings.Builder
	b.WriteString(idColor.Sprintf("%-6s", n.ID))
	if n.Pinned {
		b.WriteString(pinColor.Sprint("* "))
	} else {
		b.WriteString("  ")
	}
	title := n.Title
	if title == "" {
		title = firstLine(n.Content)
	}
	b.WriteString(title)
	for _, name := range views.TagNames(tags, n.Tags) {
		b.WriteString(" ")
		b.WriteString(tagColor.Sprint("#" + name))
	}
	switch {
	case n.Trashed:
		b.WriteString(stateColor.Sprint(" [trash]"))
	case n.Archived:
		b.WriteString(stateColor.Sprint(" [archived]"))
	}
	if n.Reminder != nil {
		b.WriteString(idColor.Sprintf(" (remind %s)", n.Reminder.Local().Format("2006-01-02 15:04")))
	}
	fmt.Println(b.String())
}

func printTag(t core.Tag, count int) {
	fmt.Printf("%s %s %s\n", idColor.Sprintf("%-6s", t.ID), tagColor.Sprint(t.Name), idColor.Sprintf("(%d)", count))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	const limit = 60
	if len(line) > limit {
		return line[:limit] + "..."
	}
	return line
}
