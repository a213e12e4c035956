package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/journal-content-api/internal/database"
	"github.com/journal-content-api/internal/models"
)

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when no record matches; mutations report whether a row was touched.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, status models.Status) ([]*models.Article, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error)
	SetEditorsPick(ctx context.Context, id string, pick bool) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	ViewCounts(ctx context.Context, status models.Status) (map[string]int64, error)
	BatchInsert(ctx context.Context, articles []*models.Article) (int, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	Update(ctx context.Context, video *models.Video) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, status models.Status) ([]*models.Video, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error)
	BatchInsert(ctx context.Context, videos []*models.Video) (int, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	StreamAll(ctx context.Context, callback func(*models.Video) error) error
}

// PodcastRepository defines the interface for podcast data operations
type PodcastRepository interface {
	Create(ctx context.Context, podcast *models.Podcast) error
	Update(ctx context.Context, podcast *models.Podcast) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Podcast, error)
	GetBySlug(ctx context.Context, slug string) (*models.Podcast, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, status models.Status) ([]*models.Podcast, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	StreamAll(ctx context.Context, callback func(*models.Podcast) error) error
}

// UserRepository defines the interface for admin account data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// JobRepository defines the interface for job data operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetPendingJobs(ctx context.Context) ([]*models.Job, error)
	MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error)
	AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error
	GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
	Video   VideoRepository
	Podcast PodcastRepository
	User    UserRepository
	Job     JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
		Video:   NewVideoRepo(db),
		Podcast: NewPodcastRepo(db),
		User:    NewUserRepo(db),
		Job:     NewJobRepo(db),
	}
}

// statusUpdateQuery stamps published_at the first time a record is published
func statusUpdateQuery(table string) string {
	return fmt.Sprintf(`
		UPDATE %s SET
			status = $1,
			published_at = CASE WHEN $1 = 'published' THEN COALESCE(published_at, $2) ELSE published_at END,
			updated_at = $2
		WHERE id = $3
	`, table)
}

func updateStatus(ctx context.Context, db *database.DB, table, id string, status models.Status) (bool, error) {
	result, err := db.ExecContext(ctx, statusUpdateQuery(table), string(status), time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

func deleteByID(ctx context.Context, db *database.DB, table, id string) (bool, error) {
	result, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

func count(ctx context.Context, db *database.DB, table string) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	return n, err
}

func countByStatus(ctx context.Context, db *database.DB, table string) (map[models.Status]int, error) {
	var rows []struct {
		Status models.Status `db:"status"`
		Count  int           `db:"count"`
	}
	query := fmt.Sprintf("SELECT status, COUNT(*) AS count FROM %s GROUP BY status", table)
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int, len(models.ValidStatuses))
	for status := range models.ValidStatuses {
		counts[status] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func slugExists(ctx context.Context, db *database.DB, table, slug string) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE slug = $1)", table), slug)
	return exists, err
}

func affected(n int64, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
