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

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo      repository.ArticleRepository
	cache     cache.ContentCache
	metrics   *metrics.Metrics
	validator *validation.Validator
	log       zerolog.Logger
}

func newArticleService(repo repository.ArticleRepository, c cache.ContentCache, m *metrics.Metrics, log zerolog.Logger) *articleService {
	return &articleService{
		repo:      repo,
		cache:     c,
		metrics:   m,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "article").Logger(),
	}
}

// Create stores a new article. The slug is derived from the title and suffixed
// until unique; status defaults to draft.
func (s *articleService) Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error) {
	if err := validation.AsError(s.validator.ValidateArticle(in)); err != nil {
		return nil, err
	}

	slug, err := newSlug(ctx, in.Title, "article", s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	article := &models.Article{
		ID:        uuid.New().String(),
		Slug:      slug,
		CreatedAt: now,
	}
	applyArticleInput(article, in, now)

	err = translateWriteErr(s.repo.Create(ctx, article))
	s.metrics.RecordContentOp(models.ResourceArticles, "create", err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article created")
	s.invalidate(ctx)
	return article, nil
}

// Update replaces the editable fields. The slug is kept unless RegenerateSlug is set.
func (s *articleService) Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error) {
	if err := validation.AsError(s.validator.ValidateArticle(in)); err != nil {
		return nil, err
	}

	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.RegenerateSlug {
		slug, err := newSlug(ctx, in.Title, "article", exceptSlug(article.Slug, s.repo.SlugExists))
		if err != nil {
			return nil, err
		}
		article.Slug = slug
	}

	applyArticleInput(article, in, time.Now().UTC())

	ok, err := s.repo.Update(ctx, article)
	err = translateWriteErr(err)
	s.metrics.RecordContentOp(models.ResourceArticles, "update", err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	s.invalidate(ctx)
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	s.metrics.RecordContentOp(models.ResourceArticles, "delete", err)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	s.log.Info().Str("article_id", id).Msg("Article deleted")
	s.invalidate(ctx)
	return nil
}

func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// GetPublishedBySlug returns a published article and counts the view.
// Drafts and archived articles are reported as not found.
func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil || article.Status != models.StatusPublished {
		return nil, ErrNotFound
	}

	if err := s.repo.IncrementViews(ctx, article.ID); err != nil {
		s.log.Warn().Err(err).Str("article_id", article.ID).Msg("Failed to count view")
	} else {
		article.Views++
	}
	return article, nil
}

// ListPublished filters the published articles; the status filter is forced to published.
// View counters are not part of the cached list's invalidation, so the most viewed
// ordering reads them fresh.
func (s *articleService) ListPublished(ctx context.Context, q listing.ArticleQuery) ([]*models.Article, error) {
	articles, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	if q.Sort == listing.SortMostViewed {
		s.refreshViews(ctx, articles)
	}
	q.Status = models.StatusPublished
	return listing.FilterArticles(articles, q), nil
}

// ListAdmin lists articles of every status for the console tables
func (s *articleService) ListAdmin(ctx context.Context, q listing.ArticleQuery) ([]*models.Article, error) {
	articles, err := s.repo.List(ctx, q.Status)
	if err != nil {
		return nil, err
	}
	return listing.FilterArticles(articles, q), nil
}

func (s *articleService) SetStatus(ctx context.Context, id string, status models.Status) (*models.Article, error) {
	if err := s.setStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *articleService) SetEditorsPick(ctx context.Context, id string, pick bool) (*models.Article, error) {
	ok, err := s.repo.SetEditorsPick(ctx, id, pick)
	s.metrics.RecordContentOp(models.ResourceArticles, "editors_pick", err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// BulkDelete deletes each article independently and reports per-item results
func (s *articleService) BulkDelete(ctx context.Context, ids []string) (*models.BulkResponse, error) {
	resp, err := runBulk(ctx, ids, func(ctx context.Context, id string) error {
		ok, err := s.repo.Delete(ctx, id)
		s.metrics.RecordContentOp(models.ResourceArticles, "delete", err)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("succeeded", resp.Succeeded).Int("failed", resp.Failed).Msg("Bulk article delete")
	s.invalidate(ctx)
	return resp, nil
}

// BulkSetStatus moves each article to status and reports per-item results
func (s *articleService) BulkSetStatus(ctx context.Context, ids []string, status models.Status) (*models.BulkResponse, error) {
	if err := validation.AsError(validation.ValidateStatus(status)); err != nil {
		return nil, err
	}

	resp, err := runBulk(ctx, ids, func(ctx context.Context, id string) error {
		return s.setStatus(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("status", string(status)).Int("succeeded", resp.Succeeded).Int("failed", resp.Failed).Msg("Bulk article status change")
	s.invalidate(ctx)
	return resp, nil
}

// Categories lists the categories of published articles
func (s *articleService) Categories(ctx context.Context) ([]string, error) {
	articles, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	return listing.ArticleCategories(articles), nil
}

func (s *articleService) setStatus(ctx context.Context, id string, status models.Status) error {
	if err := validation.AsError(validation.ValidateStatus(status)); err != nil {
		return err
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	s.metrics.RecordContentOp(models.ResourceArticles, "status", err)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *articleService) published(ctx context.Context) ([]*models.Article, error) {
	return cachedList(ctx, s.cache, s.metrics, s.log, cache.Key(models.ResourceArticles, string(models.StatusPublished)),
		func(ctx context.Context) ([]*models.Article, error) {
			return s.repo.List(ctx, models.StatusPublished)
		})
}

// refreshViews overwrites cached counters with the stored ones. On failure the
// cached counters are used as they are.
func (s *articleService) refreshViews(ctx context.Context, articles []*models.Article) {
	counts, err := s.repo.ViewCounts(ctx, models.StatusPublished)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load view counts")
		return
	}
	for _, a := range articles {
		if views, ok := counts[a.ID]; ok {
			a.Views = views
		}
	}
}

func (s *articleService) invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, s.log, models.ResourceArticles)
}

func applyArticleInput(a *models.Article, in *models.ArticleInput, now time.Time) {
	a.Title = strings.TrimSpace(in.Title)
	a.Excerpt = in.Excerpt
	a.Content = in.Content
	a.Author = in.Author
	a.Category = strings.TrimSpace(in.Category)
	a.Tags = validation.NormalizeTags(in.Tags)
	a.FeaturedImage = in.FeaturedImage
	a.IsEditorsPick = in.IsEditorsPick
	if in.Status != "" || a.Status == "" {
		a.Status = statusOrDraft(in.Status)
	}
	a.PublishedAt = publishTime(a.Status, in.PublishedAt, a.PublishedAt, now)
	a.UpdatedAt = now
}
