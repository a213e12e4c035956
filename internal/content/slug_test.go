package content

import (
	"context"
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation stripped", "Hello, World!", "hello-world"},
		{"whitespace collapsed and trimmed", "  multiple   spaces  ", "multiple-spaces"},
		{"empty", "", ""},
		{"underscores become hyphens", "snake_case_title", "snake-case-title"},
		{"hyphen runs collapse", "a -- b", "a-b"},
		{"digits kept", "Top 10 Papers of 2024", "top-10-papers-of-2024"},
		{"leading and trailing hyphens trimmed", "--Edge--", "edge"},
		{"apostrophes dropped", "Don't Panic", "dont-panic"},
		{"accented letters dropped", "Café Society", "caf-society"},
		{"non-latin degrades to empty", "日本語", ""},
		{"only punctuation", "?!.,", ""},
		{"tabs and newlines", "line\tone\ntwo", "line-one-two"},
		{"no-break space separates", "a\u00a0b", "a-b"},
		{"ideographic and thin spaces separate", "Lab\u3000Notes\u2009Weekly", "lab-notes-weekly"},
		{"line separator and vertical tab", "one\u2028two\vthree", "one-two-three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"  multiple   spaces  ",
		"The Ethics of AI: A Student's View",
		"already-normalized-slug",
		"___weird___input---",
	}

	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	ctx := context.Background()
	existing := map[string]bool{
		"hello-world":   true,
		"hello-world-2": true,
	}
	taken := func(_ context.Context, slug string) (bool, error) {
		return existing[slug], nil
	}

	got, err := UniqueSlug(ctx, "hello-world", taken)
	if err != nil {
		t.Fatalf("UniqueSlug failed: %v", err)
	}
	if got != "hello-world-3" {
		t.Errorf("Expected hello-world-3, got %s", got)
	}

	got, err = UniqueSlug(ctx, "fresh-title", taken)
	if err != nil {
		t.Fatalf("UniqueSlug failed: %v", err)
	}
	if got != "fresh-title" {
		t.Errorf("Expected fresh-title, got %s", got)
	}
}

func TestUniqueSlug_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := UniqueSlug(ctx, "", func(context.Context, string) (bool, error) { return false, nil }); err == nil {
		t.Error("Expected error for empty base")
	}

	lookupErr := errors.New("connection refused")
	_, err := UniqueSlug(ctx, "title", func(context.Context, string) (bool, error) { return false, lookupErr })
	if !errors.Is(err, lookupErr) {
		t.Errorf("Expected wrapped lookup error, got %v", err)
	}

	_, err = UniqueSlug(ctx, "title", func(context.Context, string) (bool, error) { return true, nil })
	if err == nil {
		t.Error("Expected error when every candidate is taken")
	}
}
