package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/journal-content-api/internal/listing"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/journal-content-api/internal/validation"
	"github.com/journal-content-api/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoService_CreateExtractsYouTubeID(t *testing.T) {
	h := newTestHarness(t)

	video, err := h.services.Video.Create(context.Background(), &models.VideoInput{
		Title:       "Lab Tour",
		Description: "Inside the chemistry wing",
		YouTubeURL:  "https://youtu.be/dQw4w9WgXcQ?t=42",
		Status:      models.StatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", video.YouTubeID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", video.YouTubeURL, "short links are stored in watch form")
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", video.ThumbnailURL)
	require.NotNil(t, video.PublishedAt)
	assert.Empty(t, h.fetcher.Calls, "complete input should not hit the Data API")
}

func TestVideoService_CreateRejectsUnrecognizedURL(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Video.Create(context.Background(), &models.VideoInput{
		Title:      "Elsewhere",
		YouTubeURL: "https://vimeo.com/12345",
	})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "youtube_url", verrs[0].Field)
	assert.Empty(t, h.videoRepo.Videos)
}

func TestVideoService_CreateFillsMissingMetadata(t *testing.T) {
	h := newTestHarness(t)
	h.fetcher.Metadata = &youtube.Metadata{
		ID:          "dQw4w9WgXcQ",
		Title:       "Fetched Title",
		Description: "Fetched description",
	}

	video, err := h.services.Video.Create(context.Background(), &models.VideoInput{
		YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Fetched Title", video.Title)
	assert.Equal(t, "Fetched description", video.Description)
	assert.Equal(t, []string{"dQw4w9WgXcQ"}, h.fetcher.Calls)
}

func TestVideoService_CreateTakesPublishTimeFromMetadata(t *testing.T) {
	h := newTestHarness(t)
	uploaded := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	h.fetcher.Metadata = &youtube.Metadata{
		ID:          "dQw4w9WgXcQ",
		Title:       "Fetched Title",
		Description: "Fetched description",
		PublishedAt: &uploaded,
	}

	video, err := h.services.Video.Create(context.Background(), &models.VideoInput{
		YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Status:     models.StatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, video.PublishedAt)
	assert.True(t, video.PublishedAt.Equal(uploaded), "published_at=%v", video.PublishedAt)

	explicit := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	video, err = h.services.Video.Create(context.Background(), &models.VideoInput{
		YouTubeURL:  "https://youtu.be/dQw4w9WgXcQ",
		Status:      models.StatusPublished,
		PublishedAt: &explicit,
	})
	require.NoError(t, err)
	assert.True(t, video.PublishedAt.Equal(explicit), "explicit publish time must win")
}

func TestVideoService_MetadataFailureFallsBackToValidation(t *testing.T) {
	h := newTestHarness(t)
	h.fetcher.Err = errors.New("quota exceeded")

	_, err := h.services.Video.Create(context.Background(), &models.VideoInput{
		YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "title", verrs[0].Field)
}

func TestVideoService_GetPublishedHidesDrafts(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	video, err := h.services.Video.Create(ctx, &models.VideoInput{
		Title:       "Behind The Scenes",
		Description: "Draft cut",
		YouTubeURL:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	_, err = h.services.Video.GetPublished(ctx, video.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = h.services.Video.SetStatus(ctx, video.ID, models.StatusPublished)
	require.NoError(t, err)

	got, err := h.services.Video.GetPublished(ctx, video.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ThumbnailURL)

	list, err := h.services.Video.ListPublished(ctx, listing.MediaQuery{Search: "scenes"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVideoService_BulkDelete(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	video, err := h.services.Video.Create(ctx, &models.VideoInput{
		Title:       "Short",
		Description: "Clip",
		YouTubeURL:  "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	resp, err := h.services.Video.BulkDelete(ctx, []string{video.ID, "gone"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)

	_, err = h.services.Video.BulkDelete(ctx, make([]string, 501))
	assert.Error(t, err)
}

func podcastInput(title string) *models.PodcastInput {
	return &models.PodcastInput{
		Title:           title,
		Description:     "Conversations from the lab",
		AudioURL:        "https://cdn.example.com/audio/ep1.mp3",
		HostName:        "Rosalind Franklin",
		Category:        "Science",
		EpisodeNumber:   1,
		DurationSeconds: 1800,
	}
}

func TestPodcastService_CreateAndPublish(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	first, err := h.services.Podcast.Create(ctx, podcastInput("Episode One"))
	require.NoError(t, err)
	second, err := h.services.Podcast.Create(ctx, podcastInput("Episode One"))
	require.NoError(t, err)

	assert.Equal(t, "episode-one", first.Slug)
	assert.Equal(t, "episode-one-2", second.Slug)

	_, err = h.services.Podcast.GetPublishedBySlug(ctx, first.Slug)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = h.services.Podcast.SetStatus(ctx, first.ID, models.StatusPublished)
	require.NoError(t, err)

	got, err := h.services.Podcast.GetPublishedBySlug(ctx, first.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Rosalind Franklin", got.HostName)
	require.NotNil(t, got.PublishedAt)
}

func TestPodcastService_CreateValidation(t *testing.T) {
	h := newTestHarness(t)

	in := podcastInput("Bad Episode")
	in.AudioURL = "not a url"
	in.DurationSeconds = -5

	_, err := h.services.Podcast.Create(context.Background(), in)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestPodcastService_UpdateKeepsExplicitPublishTime(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	publishedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := podcastInput("Dated Episode")
	in.Status = models.StatusPublished
	in.PublishedAt = &publishedAt

	created, err := h.services.Podcast.Create(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, created.PublishedAt)
	assert.True(t, created.PublishedAt.Equal(publishedAt))

	in.PublishedAt = nil
	in.Title = "Dated Episode, Revised"
	updated, err := h.services.Podcast.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.PublishedAt.Equal(publishedAt))
	assert.Equal(t, "dated-episode", updated.Slug)
}

func TestPodcastService_ListAdminSortsAlphabetically(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	for _, title := range []string{"Zoology Hour", "astronomy after dark", "Botany Basics"} {
		_, err := h.services.Podcast.Create(ctx, podcastInput(title))
		require.NoError(t, err)
	}

	list, err := h.services.Podcast.ListAdmin(ctx, listing.MediaQuery{Sort: listing.SortAlphabetical})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "astronomy after dark", list[0].Title)
	assert.Equal(t, "Zoology Hour", list[2].Title)
}
