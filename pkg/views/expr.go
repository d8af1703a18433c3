package views

import (
	"fmt"
	"strings"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/aretw0/notely/pkg/core"
)

// Compile builds a predicate from a boolean expression over note fields:
//
//	title, content  string
//	tags            []string  (tag ids)
//	tagNames        []string  (resolved through tags; stale ids skipped)
//	pinned, archived, trashed, hasReminder bool
//	reminder        time.Time (zero when unset)
//	now             time.Time
//
// For example: `pinned && "work" in tagNames` or `hasReminder && reminder < now`.
func Compile(expression string, tags []core.Tag) (Predicate, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}

	program, err := exprlang.Compile(expression,
		exprlang.Env(environment(core.Note{}, nil, time.Time{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	return compiled{program: program, tags: tags}.match, nil
}

type compiled struct {
	program *exprvm.Program
	tags    []core.Tag
}

// match evaluates the program; a runtime failure excludes the note.
func (c compiled) match(n core.Note) bool {
	out, err := exprlang.Run(c.program, environment(n, c.tags, time.Now()))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func environment(n core.Note, tags []core.Tag, now time.Time) map[string]any {
	ids := make([]string, len(n.Tags))
	for i, id := range n.Tags {
		ids[i] = id.String()
	}
	var reminder time.Time
	if n.Reminder != nil {
		reminder = *n.Reminder
	}
	return map[string]any{
		"id":          n.ID.String(),
		"title":       n.Title,
		"content":     n.Content,
		"tags":        ids,
		"tagNames":    TagNames(tags, n.Tags),
		"pinned":      n.Pinned,
		"archived":    n.Archived,
		"trashed":     n.Trashed,
		"hasReminder": n.Reminder != nil,
		"reminder":    reminder,
		"now":         now,
	}
}
