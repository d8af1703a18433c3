// Package views holds the pure predicates pages compose over a notes
// snapshot. Nothing here mutates its input.
package views

import (
	"slices"
	"strings"

	"github.com/aretw0/notely/pkg/core"
)

// Predicate selects notes.
type Predicate func(core.Note) bool

// Kind names a page-level view.
type Kind string

const (
	Home    Kind = "home"
	Archive Kind = "archive"
	Trash   Kind = "trash"
	ByTag   Kind = "tag"
)

// View is a page-level projection. Tag is only meaningful for ByTag.
type View struct {
	Kind Kind
	Tag  core.ID
}

// Search matches notes whose title or content contains term, ignoring case.
// An empty term matches everything.
func Search(term string) Predicate {
	if term == "" {
		return func(core.Note) bool { return true }
	}
	needle := strings.ToLower(term)
	return func(n core.Note) bool {
		return strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle)
	}
}

// Archived matches archived notes.
func Archived() Predicate {
	return func(n core.Note) bool { return n.Archived }
}

// Trashed matches trashed notes.
func Trashed() Predicate {
	return func(n core.Note) bool { return n.Trashed }
}

// Tagged matches notes referencing the tag id.
func Tagged(id core.ID) Predicate {
	return func(n core.Note) bool { return n.HasTag(id) }
}

// ForView returns the structural predicate of v. The home view has none
// and yields nil, so it shows archived and trashed notes too.
func ForView(v View) Predicate {
	switch v.Kind {
	case Archive:
		return Archived()
	case Trash:
		return Trashed()
	case ByTag:
		return Tagged(v.Tag)
	default:
		return nil
	}
}

// Filter returns copies of the notes matching the search term and, when
// structural is non-nil, the structural predicate as well.
func Filter(notes []core.Note, term string, structural Predicate) []core.Note {
	search := Search(term)
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if !search(n) {
			continue
		}
		if structural != nil && !structural(n) {
			continue
		}
		out = append(out, n.Clone())
	}
	return out
}

// Where refines notes with extra predicates, all of which must hold.
func Where(notes []core.Note, preds ...Predicate) []core.Note {
	out := make([]core.Note, 0, len(notes))
outer:
	for _, n := range notes {
		for _, p := range preds {
			if p != nil && !p(n) {
				continue outer
			}
		}
		out = append(out, n.Clone())
	}
	return out
}

// Sorted returns a copy with pinned notes first, otherwise keeping order.
func Sorted(notes []core.Note) []core.Note {
	out := make([]core.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	slices.SortStableFunc(out, func(a, b core.Note) int {
		switch {
		case a.Pinned == b.Pinned:
			return 0
		case a.Pinned:
			return -1
		default:
			return 1
		}
	})
	return out
}

// TagNames resolves ids to display names in order. Stale ids are skipped.
func TagNames(tags []core.Tag, ids []core.ID) []string {
	byID := make(map[core.ID]string, len(tags))
	for _, t := range tags {
		byID[t.ID] = t.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
