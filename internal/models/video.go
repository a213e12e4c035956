package models

import "time"

// Video represents a YouTube-hosted journal video
type Video struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	YouTubeURL   string     `json:"youtube_url" db:"youtube_url"`
	YouTubeID    string     `json:"youtube_id" db:"youtube_id"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty" db:"-"`
	Category     string     `json:"category" db:"category"`
	Status       Status     `json:"status" db:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// SortTime returns the publish time, falling back to creation time
func (v *Video) SortTime() time.Time {
	if v.PublishedAt != nil {
		return *v.PublishedAt
	}
	return v.CreatedAt
}

// VideoInput is the admin console payload for creating or editing a video
type VideoInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	YouTubeURL  string     `json:"youtube_url"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// VideoNDJSON represents a video record from NDJSON import
type VideoNDJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	YouTubeURL  string `json:"youtube_url"`
	Category    string `json:"category"`
	Status      Status `json:"status"`
	PublishedAt string `json:"published_at,omitempty"`
}
