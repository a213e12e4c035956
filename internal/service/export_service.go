package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/rs/zerolog"
)

// flushEvery is the number of streamed records between explicit flushes
const flushEvery = 100

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams articles as NDJSON, a JSON array or CSV
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")

	switch format {
	case FormatNDJSON:
		return streamNDJSON(ctx, w, s.log, models.ResourceArticles, s.repos.Article.StreamAll)
	case FormatJSON:
		return streamJSON(ctx, w, models.ResourceArticles, s.repos.Article.StreamAll)
	case FormatCSV:
		return s.streamArticlesCSV(ctx, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// StreamVideos streams videos as NDJSON or a JSON array
func (s *exportService) StreamVideos(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting videos export")

	switch format {
	case FormatNDJSON:
		return streamNDJSON(ctx, w, s.log, models.ResourceVideos, s.repos.Video.StreamAll)
	case FormatJSON:
		return streamJSON(ctx, w, models.ResourceVideos, s.repos.Video.StreamAll)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// StreamPodcasts streams podcast episodes as NDJSON or a JSON array
func (s *exportService) StreamPodcasts(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting podcasts export")

	switch format {
	case FormatNDJSON:
		return streamNDJSON(ctx, w, s.log, models.ResourcePodcasts, s.repos.Podcast.StreamAll)
	case FormatJSON:
		return streamJSON(ctx, w, models.ResourcePodcasts, s.repos.Podcast.StreamAll)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func streamNDJSON[T any](ctx context.Context, w http.ResponseWriter, log zerolog.Logger, resource string, stream func(context.Context, func(T) error) error) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+".ndjson")

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	count := 0

	err := stream(ctx, func(record T) error {
		if err := enc.Encode(record); err != nil {
			return err
		}
		count++

		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	log.Info().Str("resource", resource).Int("count", count).Msg("Export completed")
	return err
}

func streamJSON[T any](ctx context.Context, w http.ResponseWriter, resource string, stream func(context.Context, func(T) error) error) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+".json")

	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	first := true

	err := stream(ctx, func(record T) error {
		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		first = false

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})

	io.WriteString(w, "]")
	return err
}

var articleCSVHeader = []string{
	"id", "slug", "title", "excerpt", "author", "category", "tags",
	"featured_image", "status", "is_editors_pick", "views", "published_at", "created_at", "updated_at",
}

func (s *exportService) streamArticlesCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(articleCSVHeader); err != nil {
		return err
	}

	return s.repos.Article.StreamAll(ctx, func(a *models.Article) error {
		publishedAt := ""
		if a.PublishedAt != nil {
			publishedAt = a.PublishedAt.UTC().Format(time.RFC3339)
		}
		return writer.Write([]string{
			a.ID,
			a.Slug,
			a.Title,
			a.Excerpt,
			a.Author.DisplayName,
			a.Category,
			strings.Join(a.Tags, "|"),
			a.FeaturedImage,
			string(a.Status),
			strconv.FormatBool(a.IsEditorsPick),
			strconv.FormatInt(a.Views, 10),
			publishedAt,
			a.CreatedAt.UTC().Format(time.RFC3339),
			a.UpdatedAt.UTC().Format(time.RFC3339),
		})
	})
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case models.ResourceArticles:
		return s.repos.Article.Count(ctx)
	case models.ResourceVideos:
		return s.repos.Video.Count(ctx)
	case models.ResourcePodcasts:
		return s.repos.Podcast.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}

// StreamResource streams any resource type
func (s *exportService) StreamResource(ctx context.Context, w io.Writer, resource, format string) error {
	hw, ok := w.(http.ResponseWriter)
	if !ok {
		return fmt.Errorf("writer is not http.ResponseWriter")
	}

	switch resource {
	case models.ResourceArticles:
		return s.StreamArticles(ctx, hw, format)
	case models.ResourceVideos:
		return s.StreamVideos(ctx, hw, format)
	case models.ResourcePodcasts:
		return s.StreamPodcasts(ctx, hw, format)
	default:
		return fmt.Errorf("unknown resource: %s", resource)
	}
}
