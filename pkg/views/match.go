package views

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notely/pkg/core"
)

// MatchTags returns the tags whose name matches pattern, case-insensitively.
// Patterns use doublestar syntax ("work*", "{home,errands}"); a pattern
// without metacharacters is an exact name match.
func MatchTags(tags []core.Tag, pattern string) ([]core.Tag, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil, fmt.Errorf("tag pattern cannot be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var out []core.Tag
	for _, t := range tags {
		ok, err := doublestar.Match(pattern, strings.ToLower(t.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// TaggedAny matches notes referencing any of tags.
func TaggedAny(tags []core.Tag) Predicate {
	ids := make(map[core.ID]struct{}, len(tags))
	for _, t := range tags {
		ids[t.ID] = struct{}{}
	}
	return func(n core.Note) bool {
		for _, id := range n.Tags {
			if _, ok := ids[id]; ok {
				return true
			}
		}
		return false
	}
}
