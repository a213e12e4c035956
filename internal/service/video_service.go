package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/content"
	"github.com/journal-content-api/internal/listing"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/validation"
	"github.com/journal-content-api/internal/youtube"
	"github.com/rs/zerolog"
)

// videoService is the concrete implementation of VideoService
type videoService struct {
	repo      repository.VideoRepository
	youtube   youtube.MetadataFetcher
	cache     cache.ContentCache
	metrics   *metrics.Metrics
	validator *validation.Validator
	log       zerolog.Logger
}

func newVideoService(repo repository.VideoRepository, yt youtube.MetadataFetcher, c cache.ContentCache, m *metrics.Metrics, log zerolog.Logger) *videoService {
	return &videoService{
		repo:      repo,
		youtube:   yt,
		cache:     c,
		metrics:   m,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "video").Logger(),
	}
}

// Create stores a video. The YouTube ID must be extractable from the URL;
// an empty title or description is filled from the Data API when configured.
func (s *videoService) Create(ctx context.Context, in *models.VideoInput) (*models.Video, error) {
	s.fillMetadata(ctx, in)
	if err := validation.AsError(s.validator.ValidateVideo(in)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	video := &models.Video{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	applyVideoInput(video, in, now)

	err := s.repo.Create(ctx, video)
	s.metrics.RecordContentOp(models.ResourceVideos, "create", err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("video_id", video.ID).Str("youtube_id", video.YouTubeID).Msg("Video created")
	s.invalidate(ctx)
	return decorateVideo(video), nil
}

func (s *videoService) Update(ctx context.Context, id string, in *models.VideoInput) (*models.Video, error) {
	s.fillMetadata(ctx, in)
	if err := validation.AsError(s.validator.ValidateVideo(in)); err != nil {
		return nil, err
	}

	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyVideoInput(video, in, time.Now().UTC())

	ok, err := s.repo.Update(ctx, video)
	s.metrics.RecordContentOp(models.ResourceVideos, "update", err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	s.invalidate(ctx)
	return decorateVideo(video), nil
}

func (s *videoService) Delete(ctx context.Context, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("video_id", id).Msg("Video deleted")
	s.invalidate(ctx)
	return nil
}

func (s *videoService) Get(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrNotFound
	}
	return decorateVideo(video), nil
}

// GetPublished hides drafts and archived videos from the public site
func (s *videoService) GetPublished(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.Status != models.StatusPublished {
		return nil, ErrNotFound
	}
	return video, nil
}

func (s *videoService) ListPublished(ctx context.Context, q listing.MediaQuery) ([]*models.Video, error) {
	videos, err := cachedList(ctx, s.cache, s.metrics, s.log, cache.Key(models.ResourceVideos, string(models.StatusPublished)),
		func(ctx context.Context) ([]*models.Video, error) {
			return s.list(ctx, models.StatusPublished)
		})
	if err != nil {
		return nil, err
	}
	q.Status = models.StatusPublished
	return listing.FilterVideos(videos, q), nil
}

func (s *videoService) ListAdmin(ctx context.Context, q listing.MediaQuery) ([]*models.Video, error) {
	videos, err := s.list(ctx, q.Status)
	if err != nil {
		return nil, err
	}
	return listing.FilterVideos(videos, q), nil
}

func (s *videoService) SetStatus(ctx context.Context, id string, status models.Status) (*models.Video, error) {
	if err := validation.AsError(validation.ValidateStatus(status)); err != nil {
		return nil, err
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	s.metrics.RecordContentOp(models.ResourceVideos, "status", err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *videoService) BulkDelete(ctx context.Context, ids []string) (*models.BulkResponse, error) {
	resp, err := runBulk(ctx, ids, s.delete)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("succeeded", resp.Succeeded).Int("failed", resp.Failed).Msg("Bulk video delete")
	s.invalidate(ctx)
	return resp, nil
}

func (s *videoService) delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	s.metrics.RecordContentOp(models.ResourceVideos, "delete", err)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *videoService) list(ctx context.Context, status models.Status) ([]*models.Video, error) {
	videos, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		decorateVideo(v)
	}
	return videos, nil
}

// fillMetadata completes an empty title or description from the Data API, and
// the publish time when none was given. Lookup failures only cost the pre-fill;
// validation still runs on the input.
func (s *videoService) fillMetadata(ctx context.Context, in *models.VideoInput) {
	if s.youtube == nil || (strings.TrimSpace(in.Title) != "" && in.Description != "") {
		return
	}
	id, ok := content.ExtractYouTubeID(in.YouTubeURL)
	if !ok {
		return
	}

	meta, err := s.youtube.Fetch(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("youtube_id", id).Msg("YouTube metadata lookup failed")
		return
	}
	if meta == nil {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		in.Title = meta.Title
	}
	if in.Description == "" {
		in.Description = meta.Description
	}
	if in.PublishedAt == nil && meta.PublishedAt != nil {
		t := meta.PublishedAt.UTC()
		in.PublishedAt = &t
	}
}

func (s *videoService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, s.log, models.ResourceVideos)
}

// applyVideoInput copies a validated input; the URL is known to carry an ID and
// is stored in its canonical watch form
func applyVideoInput(v *models.Video, in *models.VideoInput, now time.Time) {
	id, _ := content.ExtractYouTubeID(in.YouTubeURL)

	v.Title = strings.TrimSpace(in.Title)
	v.Description = in.Description
	v.YouTubeURL = content.YouTubeWatchURL(id)
	v.YouTubeID = id
	v.Category = strings.TrimSpace(in.Category)
	if in.Status != "" || v.Status == "" {
		v.Status = statusOrDraft(in.Status)
	}
	v.PublishedAt = publishTime(v.Status, in.PublishedAt, v.PublishedAt, now)
	v.UpdatedAt = now
}

func decorateVideo(v *models.Video) *models.Video {
	v.ThumbnailURL = content.YouTubeThumbnailURL(v.YouTubeID)
	return v
}
