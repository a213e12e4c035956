package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/listing"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/validation"
	"github.com/rs/zerolog"
)

// podcastService is the concrete implementation of PodcastService
type podcastService struct {
	repo      repository.PodcastRepository
	cache     cache.ContentCache
	metrics   *metrics.Metrics
	validator *validation.Validator
	log       zerolog.Logger
}

func newPodcastService(repo repository.PodcastRepository, c cache.ContentCache, m *metrics.Metrics, log zerolog.Logger) *podcastService {
	return &podcastService{
		repo:      repo,
		cache:     c,
		metrics:   m,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "podcast").Logger(),
	}
}

func (s *podcastService) Create(ctx context.Context, in *models.PodcastInput) (*models.Podcast, error) {
	if err := validation.AsError(s.validator.ValidatePodcast(in)); err != nil {
		return nil, err
	}

	slug, err := newSlug(ctx, in.Title, "episode", s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	podcast := &models.Podcast{
		ID:        uuid.New().String(),
		Slug:      slug,
		CreatedAt: now,
	}
	applyPodcastInput(podcast, in, now)

	err = translateWriteErr(s.repo.Create(ctx, podcast))
	s.metrics.RecordContentOp(models.ResourcePodcasts, "create", err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("podcast_id", podcast.ID).Str("slug", podcast.Slug).Msg("Podcast episode created")
	s.invalidate(ctx)
	return podcast, nil
}

func (s *podcastService) Update(ctx context.Context, id string, in *models.PodcastInput) (*models.Podcast, error) {
	if err := validation.AsError(s.validator.ValidatePodcast(in)); err != nil {
		return nil, err
	}

	podcast, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.RegenerateSlug {
		slug, err := newSlug(ctx, in.Title, "episode", exceptSlug(podcast.Slug, s.repo.SlugExists))
		if err != nil {
			return nil, err
		}
		podcast.Slug = slug
	}
	applyPodcastInput(podcast, in, time.Now().UTC())

	ok, err := s.repo.Update(ctx, podcast)
	err = translateWriteErr(err)
	s.metrics.RecordContentOp(models.ResourcePodcasts, "update", err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	s.invalidate(ctx)
	return podcast, nil
}

func (s *podcastService) Delete(ctx context.Context, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("podcast_id", id).Msg("Podcast episode deleted")
	s.invalidate(ctx)
	return nil
}

func (s *podcastService) Get(ctx context.Context, id string) (*models.Podcast, error) {
	podcast, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if podcast == nil {
		return nil, ErrNotFound
	}
	return podcast, nil
}

func (s *podcastService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Podcast, error) {
	podcast, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if podcast == nil || podcast.Status != models.StatusPublished {
		return nil, ErrNotFound
	}
	return podcast, nil
}

func (s *podcastService) ListPublished(ctx context.Context, q listing.MediaQuery) ([]*models.Podcast, error) {
	podcasts, err := cachedList(ctx, s.cache, s.metrics, s.log, cache.Key(models.ResourcePodcasts, string(models.StatusPublished)),
		func(ctx context.Context) ([]*models.Podcast, error) {
			return s.repo.List(ctx, models.StatusPublished)
		})
	if err != nil {
		return nil, err
	}
	q.Status = models.StatusPublished
	return listing.FilterPodcasts(podcasts, q), nil
}

func (s *podcastService) ListAdmin(ctx context.Context, q listing.MediaQuery) ([]*models.Podcast, error) {
	podcasts, err := s.repo.List(ctx, q.Status)
	if err != nil {
		return nil, err
	}
	return listing.FilterPodcasts(podcasts, q), nil
}

func (s *podcastService) SetStatus(ctx context.Context, id string, status models.Status) (*models.Podcast, error) {
	if err := validation.AsError(validation.ValidateStatus(status)); err != nil {
		return nil, err
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	s.metrics.RecordContentOp(models.ResourcePodcasts, "status", err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *podcastService) BulkDelete(ctx context.Context, ids []string) (*models.BulkResponse, error) {
	resp, err := runBulk(ctx, ids, s.delete)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("succeeded", resp.Succeeded).Int("failed", resp.Failed).Msg("Bulk podcast delete")
	s.invalidate(ctx)
	return resp, nil
}

func (s *podcastService) delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	s.metrics.RecordContentOp(models.ResourcePodcasts, "delete", err)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *podcastService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, s.log, models.ResourcePodcasts)
}

func applyPodcastInput(p *models.Podcast, in *models.PodcastInput, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.AudioURL = in.AudioURL
	p.HostName = strings.TrimSpace(in.HostName)
	p.Category = strings.TrimSpace(in.Category)
	p.EpisodeNumber = in.EpisodeNumber
	p.DurationSeconds = in.DurationSeconds
	if in.Status != "" || p.Status == "" {
		p.Status = statusOrDraft(in.Status)
	}
	p.PublishedAt = publishTime(p.Status, in.PublishedAt, p.PublishedAt, now)
	p.UpdatedAt = now
}
