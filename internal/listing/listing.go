// Package listing filters and orders in-memory content lists for the public
// listing pages and the admin console tables. Every function returns a new
// slice and leaves its input untouched.
package listing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a listing
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortMostViewed   SortKey = "most_viewed"
	SortAlphabetical SortKey = "alphabetical"
)

// All is the filter value that disables category and editor's pick filtering
const All = "All"

var sortAliases = map[string]SortKey{
	"":             SortNewest,
	"newest":       SortNewest,
	"latest":       SortNewest,
	"oldest":       SortOldest,
	"most_viewed":  SortMostViewed,
	"most-viewed":  SortMostViewed,
	"popular":      SortMostViewed,
	"alphabetical": SortAlphabetical,
	"title":        SortAlphabetical,
}

// ParseSortKey maps a query parameter to a SortKey; empty means newest
func ParseSortKey(s string) (SortKey, error) {
	key, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown sort %q, must be one of: newest, oldest, most_viewed, alphabetical", s)
	}
	return key, nil
}

// ParseEditorsPick maps "All"/"" to nil and "true"/"false" to a flag
func ParseEditorsPick(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if isAll(s) {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("editors_pick must be All, true or false")
	}
	return &v, nil
}

func isAll(s string) bool {
	return s == "" || strings.EqualFold(s, All)
}

// matchesCategory is an exact match unless the filter is All or empty
func matchesCategory(filter, category string) bool {
	return isAll(filter) || filter == category
}

// containsFold reports whether any field contains term, ignoring case.
// term must already be lower-cased.
func containsFold(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sortByTime orders items by timestamp, newest first when desc is set
func sortByTime[T any](items []T, at func(T) time.Time, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return at(items[i]).After(at(items[j]))
		}
		return at(items[i]).Before(at(items[j]))
	})
}

// sortByTitle orders items alphabetically using English collation rules.
// A collator is not safe for concurrent use, so each call builds its own.
func sortByTitle[T any](items []T, title func(T) string) {
	c := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(title(items[i]), title(items[j])) < 0
	})
}

// sortedStrings returns the distinct non-empty values in collation order
func sortedStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	c := collate.New(language.English)
	c.SortStrings(out)
	return out
}
