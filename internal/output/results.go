package output

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ResultEntry is a single matched resource.
type ResultEntry struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Tags []string `json:"tags"`
}

// ResultList implements Formatter for filter query results.
type ResultList struct {
	Entries []ResultEntry
	// Count is the total number of matches, which can exceed len(Entries)
	// when the page was limited.
	Count  int
	sorted bool
}

// sort orders entries by resource id, matching the engine's scan order.
func (l *ResultList) sort() {
	if l.sorted {
		return
	}
	sort.Slice(l.Entries, func(i, j int) bool {
		return l.Entries[i].ID < l.Entries[j].ID
	})
	for _, e := range l.Entries {
		sort.Strings(e.Tags)
	}
	l.sorted = true
}

// FormatText returns aligned table output with a match-count trailer.
// Header: ID, TYPE, TAGS
func (l *ResultList) FormatText() string {
	if len(l.Entries) == 0 {
		return "no matches"
	}
	l.sort()

	tw := NewTableWriter()
	tw.Header("ID", "TYPE", "TAGS")

	for _, e := range l.Entries {
		tags := strings.Join(e.Tags, ",")
		if tags == "" {
			tags = "-"
		}
		tw.Row(e.ID, e.Type, tags)
	}

	out := tw.String()
	if l.Count > len(l.Entries) {
		out += "\n(" + strconv.Itoa(len(l.Entries)) + " of " + strconv.Itoa(l.Count) + " matches shown)"
	}
	return out
}

// FormatJSON returns the result as a JSON object with total count.
func (l *ResultList) FormatJSON() ([]byte, error) {
	l.sort()
	entries := l.Entries
	if entries == nil {
		entries = []ResultEntry{}
	}
	return json.MarshalIndent(struct {
		Count   int           `json:"count"`
		Entries []ResultEntry `json:"entries"`
	}{Count: l.Count, Entries: entries}, "", "  ")
}
