package schedule

import (
	"strings"

	"golang.org/x/text/cases"
)

// TagMatch selects how block tags are compared against the special tag list.
type TagMatch string

const (
	// TagMatchContains filters any block that contains a special tag.
	TagMatchContains TagMatch = "contains"
	// TagMatchExact filters only blocks equal to a special tag.
	TagMatchExact TagMatch = "exact"
)

// Organizational tags that mark a block as a location rather than a class group.
var (
	containsTags = []string{"@corp", "@lima2", "@lcbulevarartigas"}
	exactTags    = []string{"@Corp", "@Lima 2", "lima2", "@Lima Corporate", "@LC Bulevar Artigas", "@Argentina"}
)

// TagFilter drops block tags that name an organization instead of a group.
type TagFilter struct {
	Mode TagMatch
	tags []string // normalized
}

// NewTagFilter returns the filter for mode with its built-in tag list.
// Unknown modes behave like TagMatchContains.
func NewTagFilter(mode TagMatch) TagFilter {
	if mode == TagMatchExact {
		return NewTagFilterWith(mode, exactTags)
	}
	return NewTagFilterWith(TagMatchContains, containsTags)
}

// NewTagFilterWith returns a filter for mode over a custom tag list.
func NewTagFilterWith(mode TagMatch, tags []string) TagFilter {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := normalizeTag(t); n != "" {
			normalized = append(normalized, n)
		}
	}
	return TagFilter{Mode: mode, tags: normalized}
}

// Filter returns "" when text is a special tag, otherwise text unchanged.
func (f TagFilter) Filter(text string) string {
	n := normalizeTag(text)
	for _, tag := range f.tags {
		if f.Mode == TagMatchExact {
			if n == tag {
				return ""
			}
		} else if strings.Contains(n, tag) {
			return ""
		}
	}
	return text
}

// FilterSpecialTag applies the default (contains) tag filter.
func FilterSpecialTag(text string) string {
	return NewTagFilter(TagMatchContains).Filter(text)
}

func normalizeTag(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), ""))
}
