package models

import (
	"time"

	"github.com/lib/pq"
)

// Article represents a journal article
type Article struct {
	ID            string         `json:"id" db:"id"`
	Slug          string         `json:"slug" db:"slug"`
	Title         string         `json:"title" db:"title"`
	Excerpt       string         `json:"excerpt" db:"excerpt"`
	Content       string         `json:"content" db:"content"`
	Author        Author         `json:"author" db:"author_name"`
	Category      string         `json:"category" db:"category"`
	Tags          pq.StringArray `json:"tags" db:"tags"`
	FeaturedImage string         `json:"featured_image" db:"featured_image"`
	Status        Status         `json:"status" db:"status"`
	IsEditorsPick bool           `json:"is_editors_pick" db:"is_editors_pick"`
	Views         int64          `json:"views" db:"views"`
	PublishedAt   *time.Time     `json:"published_at,omitempty" db:"published_at"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// SortTime is the timestamp listings order by: publish time, or creation time for
// articles that were never published.
func (a *Article) SortTime() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

// ArticleInput is the admin console payload for creating or editing an article
type ArticleInput struct {
	Title          string     `json:"title"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	Author         Author     `json:"author"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	FeaturedImage  string     `json:"featured_image"`
	Status         Status     `json:"status"`
	IsEditorsPick  bool       `json:"is_editors_pick"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	RegenerateSlug bool       `json:"regenerate_slug,omitempty"`
}

// ArticleNDJSON represents an article record from NDJSON import
type ArticleNDJSON struct {
	Slug          string   `json:"slug,omitempty"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Author        Author   `json:"author"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image"`
	Status        Status   `json:"status"`
	IsEditorsPick bool     `json:"is_editors_pick"`
	PublishedAt   string   `json:"published_at,omitempty"`
}
