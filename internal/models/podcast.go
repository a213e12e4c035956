package models

import "time"

// Podcast represents a podcast episode
type Podcast struct {
	ID              string     `json:"id" db:"id"`
	Slug            string     `json:"slug" db:"slug"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	AudioURL        string     `json:"audio_url" db:"audio_url"`
	HostName        string     `json:"host_name" db:"host_name"`
	Category        string     `json:"category" db:"category"`
	EpisodeNumber   int        `json:"episode_number" db:"episode_number"`
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`
	Status          Status     `json:"status" db:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// SortTime returns the publish time, falling back to creation time
func (p *Podcast) SortTime() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// PodcastInput is the admin console payload for creating or editing a podcast episode
type PodcastInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AudioURL        string     `json:"audio_url"`
	HostName        string     `json:"host_name"`
	Category        string     `json:"category"`
	EpisodeNumber   int        `json:"episode_number"`
	DurationSeconds int        `json:"duration_seconds"`
	Status          Status     `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	RegenerateSlug  bool       `json:"regenerate_slug,omitempty"`
}
