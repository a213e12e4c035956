package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/content"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/validation"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// bulkConcurrency bounds the per-record goroutines of one bulk request
	bulkConcurrency = 8
	maxBulkItems    = 500

	uniqueViolation = pq.ErrorCode("23505")
)

// runBulk applies op to every id concurrently. A failing record never aborts the
// others; each outcome lands in the result slot matching its position in ids.
func runBulk(ctx context.Context, ids []string, op func(ctx context.Context, id string) error) (*models.BulkResponse, error) {
	if len(ids) == 0 {
		return nil, validation.Errors{{Field: "ids", Message: "at least one id is required"}}
	}
	if len(ids) > maxBulkItems {
		return nil, validation.Errors{{Field: "ids", Message: fmt.Sprintf("at most %d ids per request", maxBulkItems)}}
	}

	results := make([]models.BulkItemResult, len(ids))

	var g errgroup.Group
	g.SetLimit(bulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = models.BulkItemResult{ID: id, Success: true}
			if _, err := uuid.Parse(id); err != nil {
				results[i].Success = false
				results[i].Error = ErrInvalidID.Error()
				return nil
			}
			if err := op(ctx, id); err != nil {
				results[i].Success = false
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return models.NewBulkResponse(results), nil
}

// statusOrDraft defaults an empty status to draft
func statusOrDraft(status models.Status) models.Status {
	if status == "" {
		return models.StatusDraft
	}
	return status
}

// publishTime picks the stored publish timestamp: an explicit value wins, an
// existing stamp is kept, and a record becoming published is stamped now.
func publishTime(status models.Status, requested, current *time.Time, now time.Time) *time.Time {
	if requested != nil {
		t := requested.UTC()
		return &t
	}
	if current != nil {
		return current
	}
	if status == models.StatusPublished {
		return &now
	}
	return nil
}

// newSlug derives a free slug from title. Titles that normalize to nothing get
// prefix plus a short random suffix.
func newSlug(ctx context.Context, title, prefix string, taken content.SlugTaken) (string, error) {
	base := content.Slugify(title)
	if base == "" {
		base = prefix + "-" + uuid.New().String()[:8]
	}
	return content.UniqueSlug(ctx, base, taken)
}

// exceptSlug treats own as free so a record can keep its current slug
func exceptSlug(own string, taken content.SlugTaken) content.SlugTaken {
	return func(ctx context.Context, slug string) (bool, error) {
		if slug == own {
			return false, nil
		}
		return taken(ctx, slug)
	}
}

// translateWriteErr maps unique index violations to ErrConflict
func translateWriteErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	return err
}

// cachedList serves a published listing from the cache, loading and storing it on a miss.
// Cache failures are logged and fall through to the loader.
func cachedList[T any](ctx context.Context, c cache.ContentCache, m *metrics.Metrics, log zerolog.Logger, key string, load func(ctx context.Context) ([]T, error)) ([]T, error) {
	var items []T
	err := c.GetJSON(ctx, key, &items)
	switch {
	case err == nil:
		m.RecordCacheLookup("hit")
		return items, nil
	case errors.Is(err, cache.ErrMiss):
		m.RecordCacheLookup("miss")
	default:
		m.RecordCacheLookup("error")
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	items, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.SetJSON(ctx, key, items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return items, nil
}

func invalidate(ctx context.Context, c cache.ContentCache, log zerolog.Logger, resource string) {
	if err := c.Invalidate(ctx, resource); err != nil {
		log.Warn().Err(err).Str("resource", resource).Msg("Cache invalidation failed")
	}
}
