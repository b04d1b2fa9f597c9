// Package tag provides the faceted tag model used by the filter engine.
package tag

import "strings"

// Facet names suggested by the UI. The set is open: tags with any other facet
// are accepted and matched literally.
const (
	FacetDemographic   = "dem"
	FacetGeographic    = "geo"
	FacetPsychographic = "psy"
	FacetBusiness      = "biz"
	FacetContext       = "ctx"
	FacetCustom        = "custom"
)

// Tag is a faceted label attached to a resource, serialized as "facet:key".
type Tag struct {
	Facet string `json:"facet"`
	Key   string `json:"key"`
}

// Parse splits a raw tag string into (facet, key) on the first colon.
// A string without a colon is classified as a "custom" tag with the whole
// string as key. Keys may themselves contain colons ("a:b:c" is facet "a",
// key "b:c"). Unknown facets are not rejected.
func Parse(raw string) Tag {
	facet, key, found := strings.Cut(raw, ":")
	if !found {
		return Tag{Facet: FacetCustom, Key: raw}
	}
	return Tag{Facet: facet, Key: key}
}

// String returns the serialized "facet:key" form.
func (t Tag) String() string {
	return t.Facet + ":" + t.Key
}

// Set is an unordered collection of unique tags.
type Set map[Tag]struct{}

// NewSet builds a Set from tags, dropping duplicates.
func NewSet(tags ...Tag) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// ParseSet parses raw tag strings into a Set.
func ParseSet(raw ...string) Set {
	s := make(Set, len(raw))
	for _, r := range raw {
		s[Parse(r)] = struct{}{}
	}
	return s
}

// Has reports whether the set contains an exact (facet, key) match.
func (s Set) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Slice returns the tags as an unordered slice.
func (s Set) Slice() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}
