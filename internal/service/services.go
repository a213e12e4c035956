package service

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/journal-content-api/internal/auth"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/listing"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/youtube"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is reported for an ID that is not a UUID
	ErrInvalidID = errors.New("invalid id")
	// ErrConflict is returned when a unique value (slug, email) is already taken
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ArticleService manages journal articles
type ArticleService interface {
	Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	ListPublished(ctx context.Context, q listing.ArticleQuery) ([]*models.Article, error)
	ListAdmin(ctx context.Context, q listing.ArticleQuery) ([]*models.Article, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Article, error)
	SetEditorsPick(ctx context.Context, id string, pick bool) (*models.Article, error)
	BulkDelete(ctx context.Context, ids []string) (*models.BulkResponse, error)
	BulkSetStatus(ctx context.Context, ids []string, status models.Status) (*models.BulkResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

// VideoService manages YouTube-hosted videos
type VideoService interface {
	Create(ctx context.Context, in *models.VideoInput) (*models.Video, error)
	Update(ctx context.Context, id string, in *models.VideoInput) (*models.Video, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Video, error)
	GetPublished(ctx context.Context, id string) (*models.Video, error)
	ListPublished(ctx context.Context, q listing.MediaQuery) ([]*models.Video, error)
	ListAdmin(ctx context.Context, q listing.MediaQuery) ([]*models.Video, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Video, error)
	BulkDelete(ctx context.Context, ids []string) (*models.BulkResponse, error)
}

// PodcastService manages podcast episodes
type PodcastService interface {
	Create(ctx context.Context, in *models.PodcastInput) (*models.Podcast, error)
	Update(ctx context.Context, id string, in *models.PodcastInput) (*models.Podcast, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Podcast, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Podcast, error)
	ListPublished(ctx context.Context, q listing.MediaQuery) ([]*models.Podcast, error)
	ListAdmin(ctx context.Context, q listing.MediaQuery) ([]*models.Podcast, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Podcast, error)
	BulkDelete(ctx context.Context, ids []string) (*models.BulkResponse, error)
}

// AuthService signs admin console users in and manages their accounts
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	ParseToken(token string) (*auth.Claims, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// StatsService reports content counts for the admin dashboard
type StatsService interface {
	Stats(ctx context.Context) (*models.ContentStats, error)
}

// ImportService defines the interface for import operations
type ImportService interface {
	CreateImportJob(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error)
	ProcessImport(ctx context.Context, job *models.Job) error
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
	StreamVideos(ctx context.Context, w http.ResponseWriter, format string) error
	StreamPodcasts(ctx context.Context, w http.ResponseWriter, format string) error
	StreamResource(ctx context.Context, w io.Writer, resource, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// JobService defines the interface for job management
type JobService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	GetJob(ctx context.Context, id string) (*models.JobResponse, error)
	GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error)
	SetImportService(importService ImportService)
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Video   VideoService
	Podcast PodcastService
	Auth    AuthService
	Stats   StatsService
	Import  ImportService
	Export  ExportService
	Job     JobService
}

// Options carries the optional collaborators of the content services.
// A nil Cache falls back to the no-op cache; a nil YouTube disables metadata lookup;
// a nil Tokens disables Login (the CLI only creates users).
type Options struct {
	Cache   cache.ContentCache
	Metrics *metrics.Metrics
	Tokens  *auth.TokenManager
	YouTube youtube.MetadataFetcher
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, opts Options, log zerolog.Logger) *Services {
	if opts.Cache == nil {
		opts.Cache = cache.Noop{}
	}

	jobSvc := newJobService(repos.Job, log)
	importSvc := newImportService(repos, opts.Cache, opts.Metrics, cfg, log)
	exportSvc := newExportService(repos, log)

	// Wire up job processor to import service
	jobSvc.SetImportService(importSvc)

	return &Services{
		Article: newArticleService(repos.Article, opts.Cache, opts.Metrics, log),
		Video:   newVideoService(repos.Video, opts.YouTube, opts.Cache, opts.Metrics, log),
		Podcast: newPodcastService(repos.Podcast, opts.Cache, opts.Metrics, log),
		Auth:    newAuthService(repos.User, opts.Tokens, log),
		Stats:   newStatsService(repos),
		Import:  importSvc,
		Export:  exportSvc,
		Job:     jobSvc,
	}
}
