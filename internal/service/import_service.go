package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/content"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	// errorFlushThreshold caps the validation errors held in memory per job
	errorFlushThreshold = 1000
	// cancelCheckInterval is how many lines pass between context checks
	cancelCheckInterval = 10000
	maxLineSize         = 1024 * 1024
)

// importService is the concrete implementation of ImportService
type importService struct {
	repos   *repository.Repositories
	cache   cache.ContentCache
	metrics *metrics.Metrics
	cfg     *config.Config
	log     zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, c cache.ContentCache, m *metrics.Metrics, cfg *config.Config, log zerolog.Logger) *importService {
	return &importService{
		repos:   repos,
		cache:   c,
		metrics: m,
		cfg:     cfg,
		log:     log.With().Str("service", "import").Logger(),
	}
}

// CreateImportJob records a pending job; the job processor picks it up
func (s *importService) CreateImportJob(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error) {
	if !models.ImportableResources[req.Resource] {
		return nil, validation.Errors{{
			Field:   "resource",
			Message: "invalid resource, must be one of: articles, videos",
			Value:   req.Resource,
		}}
	}

	job := &models.Job{
		ID:             uuid.New().String(),
		Type:           models.JobTypeImport,
		Resource:       req.Resource,
		Status:         models.JobStatusPending,
		IdempotencyKey: req.IdempotencyKey,
		FilePath:       filePath,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repos.Job.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("resource", job.Resource).
		Str("file", filePath).
		Str("created_by", job.CreatedBy).
		Msg("Import job created")

	return job, nil
}

// ProcessImport processes an import job
func (s *importService) ProcessImport(ctx context.Context, job *models.Job) error {
	startTime := time.Now()
	job.Status = models.JobStatusProcessing
	job.StartedAt = &startTime
	if err := s.repos.Job.Update(ctx, job); err != nil {
		s.log.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to mark job as processing")
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("resource", job.Resource).
		Msg("Starting import processing")

	var err error
	switch job.Resource {
	case models.ResourceArticles:
		err = s.processArticlesNDJSON(ctx, job)
	case models.ResourceVideos:
		err = s.processVideosNDJSON(ctx, job)
	default:
		err = fmt.Errorf("unknown resource type: %s", job.Resource)
	}

	duration := time.Since(startTime)
	job.DurationMs = duration.Milliseconds()
	if job.ProcessedCount > 0 && duration.Seconds() > 0 {
		job.RowsPerSec = float64(job.ProcessedCount) / duration.Seconds()
	}

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	var errorRate float64
	if job.TotalRecords > 0 {
		errorRate = float64(job.FailedCount) / float64(job.TotalRecords) * 100
	}

	if err != nil {
		job.Status = models.JobStatusFailed
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Import failed")
	} else {
		job.Status = models.JobStatusCompleted
		s.log.Info().
			Str("job_id", job.ID).
			Int("total", job.TotalRecords).
			Int("successful", job.SuccessfulCount).
			Int("failed", job.FailedCount).
			Float64("error_rate_pct", errorRate).
			Int64("duration_ms", job.DurationMs).
			Float64("rows_per_sec", job.RowsPerSec).
			Msg("Import completed")
	}

	s.metrics.RecordImport(job.Resource, job.SuccessfulCount, job.FailedCount)
	if job.SuccessfulCount > 0 {
		invalidate(ctx, s.cache, s.log, job.Resource)
	}

	if updateErr := s.repos.Job.Update(ctx, job); updateErr != nil {
		s.log.Error().Err(updateErr).Str("job_id", job.ID).Msg("Failed to store job result")
	}

	return err
}

// processArticlesNDJSON imports articles. Explicit slugs must be free; missing
// slugs are derived from the title and suffixed past both stored slugs and
// slugs accepted earlier in the same file.
func (s *importService) processArticlesNDJSON(ctx context.Context, job *models.Job) error {
	validator := validation.NewValidator()
	batch := newBatcher(job, s.cfg.Import.BatchSize, s.repos.Article.BatchInsert, s.log)

	taken := func(ctx context.Context, slug string) (bool, error) {
		if validator.HasArticleSlug(slug) {
			return true, nil
		}
		return s.repos.Article.SlugExists(ctx, slug)
	}

	err := s.scanNDJSON(ctx, job, func(ctx context.Context, line []byte, lineNum int) []validation.ValidationError {
		var record models.ArticleNDJSON
		if err := json.Unmarshal(line, &record); err != nil {
			return invalidJSON(err)
		}

		if errors := validator.ValidateArticleNDJSON(&record); len(errors) > 0 {
			return errors
		}

		slug := record.Slug
		if slug != "" {
			exists, err := s.repos.Article.SlugExists(ctx, slug)
			if err != nil {
				return []validation.ValidationError{{Field: "slug", Message: fmt.Sprintf("slug lookup failed: %v", err)}}
			}
			if exists {
				return []validation.ValidationError{{Field: "slug", Message: "slug already exists", Value: slug}}
			}
		} else {
			derived, err := newSlug(ctx, record.Title, "article", taken)
			if err != nil {
				return []validation.ValidationError{{Field: "slug", Message: err.Error()}}
			}
			slug = derived
		}

		validator.AddArticleSlug(slug)
		batch.add(ctx, convertNDJSONToArticle(&record, slug))
		return nil
	})

	batch.flush(ctx)
	return err
}

// processVideosNDJSON imports videos; every accepted line carries a YouTube ID
func (s *importService) processVideosNDJSON(ctx context.Context, job *models.Job) error {
	validator := validation.NewValidator()
	batch := newBatcher(job, s.cfg.Import.BatchSize, s.repos.Video.BatchInsert, s.log)

	err := s.scanNDJSON(ctx, job, func(ctx context.Context, line []byte, lineNum int) []validation.ValidationError {
		var record models.VideoNDJSON
		if err := json.Unmarshal(line, &record); err != nil {
			return invalidJSON(err)
		}

		if errors := validator.ValidateVideoNDJSON(&record); len(errors) > 0 {
			return errors
		}

		batch.add(ctx, convertNDJSONToVideo(&record))
		return nil
	})

	batch.flush(ctx)
	return err
}

// lineHandler validates and queues one non-blank line, returning its errors
type lineHandler func(ctx context.Context, line []byte, lineNum int) []validation.ValidationError

// scanNDJSON walks the job file line by line. Blank lines are skipped but still
// counted for line numbers; rejected lines are recorded as job errors.
func (s *importService) scanNDJSON(ctx context.Context, job *models.Job, handle lineHandler) error {
	file, err := os.Open(job.FilePath)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	var validationErrors []models.ValidationError
	defer func() {
		s.flushValidationErrors(ctx, job.ID, &validationErrors)
	}()

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		job.TotalRecords++

		if lineNum%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		errors := handle(ctx, line, lineNum)
		if len(errors) == 0 {
			continue
		}

		job.FailedCount++
		job.ProcessedCount++
		for _, e := range errors {
			validationErrors = append(validationErrors, models.ValidationError{
				Line:    lineNum,
				Field:   e.Field,
				Message: e.Message,
				Value:   e.Value,
			})
		}
		if len(validationErrors) >= errorFlushThreshold {
			s.flushValidationErrors(ctx, job.ID, &validationErrors)
		}
	}

	return scanner.Err()
}

// flushValidationErrors writes accumulated errors to the database and resets the slice
func (s *importService) flushValidationErrors(ctx context.Context, jobID string, errors *[]models.ValidationError) {
	if len(*errors) == 0 {
		return
	}
	if err := s.repos.Job.AddErrors(ctx, jobID, *errors); err != nil {
		s.log.Error().Err(err).Int("count", len(*errors)).Msg("Failed to flush validation errors")
	}
	*errors = (*errors)[:0]
}

// batcher buffers accepted records and inserts them batchSize at a time,
// keeping the job counters current.
type batcher[T any] struct {
	job    *models.Job
	size   int
	insert func(ctx context.Context, items []T) (int, error)
	items  []T
	log    zerolog.Logger
}

func newBatcher[T any](job *models.Job, size int, insert func(context.Context, []T) (int, error), log zerolog.Logger) *batcher[T] {
	if size <= 0 {
		size = 1
	}
	return &batcher[T]{
		job:    job,
		size:   size,
		insert: insert,
		items:  make([]T, 0, size),
		log:    log,
	}
}

func (b *batcher[T]) add(ctx context.Context, item T) {
	b.items = append(b.items, item)
	if len(b.items) >= b.size {
		b.flush(ctx)
	}
}

func (b *batcher[T]) flush(ctx context.Context) {
	if len(b.items) == 0 {
		return
	}

	inserted, err := b.insert(ctx, b.items)
	if err != nil {
		b.log.Error().Err(err).Str("job_id", b.job.ID).Int("batch_size", len(b.items)).Msg("Batch insert failed")
		b.job.FailedCount += len(b.items)
	} else {
		// rows the store did not take still count against the job
		b.job.SuccessfulCount += inserted
		b.job.FailedCount += len(b.items) - inserted
	}
	b.job.ProcessedCount += len(b.items)
	b.items = b.items[:0]

	ev := b.log.Debug().Str("job_id", b.job.ID).Int("processed", b.job.ProcessedCount)
	if b.job.StartedAt != nil {
		ev = ev.Float64("rows_per_sec", float64(b.job.ProcessedCount)/time.Since(*b.job.StartedAt).Seconds())
	}
	ev.Msg("Batch processed")
}

func invalidJSON(err error) []validation.ValidationError {
	return []validation.ValidationError{{Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)}}
}

// parseImportTime reads an already validated RFC 3339 timestamp
func parseImportTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func convertNDJSONToArticle(record *models.ArticleNDJSON, slug string) *models.Article {
	now := time.Now().UTC()
	status := statusOrDraft(record.Status)
	return &models.Article{
		ID:            uuid.New().String(),
		Slug:          slug,
		Title:         strings.TrimSpace(record.Title),
		Excerpt:       record.Excerpt,
		Content:       record.Content,
		Author:        record.Author,
		Category:      strings.TrimSpace(record.Category),
		Tags:          validation.NormalizeTags(record.Tags),
		FeaturedImage: record.FeaturedImage,
		Status:        status,
		IsEditorsPick: record.IsEditorsPick,
		PublishedAt:   publishTime(status, parseImportTime(record.PublishedAt), nil, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func convertNDJSONToVideo(record *models.VideoNDJSON) *models.Video {
	now := time.Now().UTC()
	status := statusOrDraft(record.Status)
	id, _ := content.ExtractYouTubeID(record.YouTubeURL)
	return &models.Video{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(record.Title),
		Description: record.Description,
		YouTubeURL:  content.YouTubeWatchURL(id),
		YouTubeID:   id,
		Category:    strings.TrimSpace(record.Category),
		Status:      status,
		PublishedAt: publishTime(status, parseImportTime(record.PublishedAt), nil, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
