// Package youtube looks up video metadata through the YouTube Data API so the
// admin console can pre-fill titles and descriptions from a pasted URL.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned when the API knows no video with the given ID
var ErrVideoNotFound = errors.New("youtube video not found")

// Metadata is the subset of a video's snippet the journal uses
type Metadata struct {
	ID          string
	Title       string
	Description string
	PublishedAt *time.Time
}

// MetadataFetcher resolves a YouTube video ID to its metadata
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (*Metadata, error)
}

// apiFetcher calls the YouTube Data API v3
type apiFetcher struct {
	svc *yt.Service
	log zerolog.Logger
}

// NewFetcher creates a fetcher authenticated with an API key. Extra options
// (for example option.WithEndpoint) are appended.
func NewFetcher(ctx context.Context, apiKey string, log zerolog.Logger, opts ...option.ClientOption) (MetadataFetcher, error) {
	if apiKey == "" {
		return nil, errors.New("youtube API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &apiFetcher{
		svc: svc,
		log: log.With().Str("component", "youtube").Logger(),
	}, nil
}

func (f *apiFetcher) Fetch(ctx context.Context, videoID string) (*Metadata, error) {
	resp, err := f.svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, ErrVideoNotFound
	}

	snippet := resp.Items[0].Snippet
	meta := &Metadata{
		ID:          videoID,
		Title:       snippet.Title,
		Description: snippet.Description,
	}
	if snippet.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
			meta.PublishedAt = &t
		} else {
			f.log.Debug().Str("video_id", videoID).Str("published_at", snippet.PublishedAt).Msg("Unparseable publish time")
		}
	}

	return meta, nil
}
