package history

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/davisday9394/Paiste/internal/content"
)

// Query narrows a history snapshot. The zero Query matches everything.
type Query struct {
	Kind      content.Kind // restrict to one kind; empty matches all
	Substring string       // case-insensitive match on text values and file paths
	Fuzzy     bool         // rank by fuzzy match instead of exact substring
	Limit     int          // cap the result; 0 means no cap
}

// Filter applies q to entries (as returned by Store.Snapshot) and returns the
// matches. With Fuzzy set the result is ordered best-match-first; otherwise
// the snapshot order is preserved.
func Filter(entries []Entry, q Query) []Entry {
	out := entries
	if q.Kind != "" {
		out = make([]Entry, 0, len(entries))
		for _, e := range entries {
			if e.Kind == q.Kind {
				out = append(out, e)
			}
		}
	}

	if q.Substring != "" {
		if q.Fuzzy {
			out = rankFuzzy(out, q.Substring)
		} else {
			needle := strings.ToLower(q.Substring)
			matched := make([]Entry, 0, len(out))
			for _, e := range out {
				s := searchText(e)
				if s != "" && strings.Contains(strings.ToLower(s), needle) {
					matched = append(matched, e)
				}
			}
			out = matched
		}
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// rankFuzzy orders entries by fuzzy match quality against needle. Entries
// with nothing searchable (images) never match.
func rankFuzzy(entries []Entry, needle string) []Entry {
	targets := make([]string, len(entries))
	for i, e := range entries {
		targets[i] = searchText(e)
	}
	ranks := fuzzy.RankFindFold(needle, targets)
	sort.Sort(ranks)
	out := make([]Entry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, entries[r.OriginalIndex])
	}
	return out
}

// searchText returns the text a query runs against: the value itself for
// text entries, the path for file entries, nothing for images.
func searchText(e Entry) string {
	switch v := e.Content.(type) {
	case content.Text:
		return string(v)
	case content.File:
		return v.Path()
	default:
		return ""
	}
}
