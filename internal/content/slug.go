// Package content holds the pure text helpers shared by the content services:
// slug generation and YouTube video ID extraction.
package content

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// space matches the ASCII whitespace of \s plus vertical tab, the Unicode
// separator categories (NBSP, ideographic space, line and paragraph separators) and BOM
const space = `\s\x0B\p{Z}\x{FEFF}`

var (
	nonSlugChars  = regexp.MustCompile(`[^\w` + space + `-]`)
	separatorRuns = regexp.MustCompile(`[` + space + `_-]+`)
)

// maxSlugAttempts bounds the numeric suffix search in UniqueSlug
const maxSlugAttempts = 1000

// Slugify turns a title into a URL-safe identifier.
//
// The filter is ASCII-word oriented: letters outside [A-Za-z0-9_] are dropped, so
// titles in non-Latin scripts can come back empty. Callers must handle "".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugTaken reports whether a slug is already in use
type SlugTaken func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base if it is free, otherwise the first free candidate of
// base-2, base-3, ...
func UniqueSlug(ctx context.Context, base string, taken SlugTaken) (string, error) {
	if base == "" {
		return "", fmt.Errorf("slug base is empty")
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}
