package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/journal-content-api/internal/database"
	"github.com/journal-content-api/internal/models"
)

const podcastColumns = `id, slug, title, description, audio_url, host_name, category, episode_number,
	duration_seconds, status, published_at, created_at, updated_at`

type podcastRepo struct {
	db *database.DB
}

// NewPodcastRepo creates a new podcast repository
func NewPodcastRepo(db *database.DB) PodcastRepository {
	return &podcastRepo{db: db}
}

func (r *podcastRepo) Create(ctx context.Context, podcast *models.Podcast) error {
	query := `
		INSERT INTO podcasts (id, slug, title, description, audio_url, host_name, category,
			episode_number, duration_seconds, status, published_at, created_at, updated_at)
		VALUES (:id, :slug, :title, :description, :audio_url, :host_name, :category,
			:episode_number, :duration_seconds, :status, :published_at, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, podcast)
	return err
}

func (r *podcastRepo) Update(ctx context.Context, podcast *models.Podcast) (bool, error) {
	query := `
		UPDATE podcasts SET
			slug = :slug, title = :title, description = :description, audio_url = :audio_url,
			host_name = :host_name, category = :category, episode_number = :episode_number,
			duration_seconds = :duration_seconds, status = :status,
			published_at = :published_at, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, podcast)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

func (r *podcastRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "podcasts", id)
}

func (r *podcastRepo) GetByID(ctx context.Context, id string) (*models.Podcast, error) {
	return r.getOne(ctx, "SELECT "+podcastColumns+" FROM podcasts WHERE id = $1", id)
}

func (r *podcastRepo) GetBySlug(ctx context.Context, slug string) (*models.Podcast, error) {
	return r.getOne(ctx, "SELECT "+podcastColumns+" FROM podcasts WHERE slug = $1", slug)
}

func (r *podcastRepo) getOne(ctx context.Context, query, arg string) (*models.Podcast, error) {
	var podcast models.Podcast
	err := r.db.GetContext(ctx, &podcast, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &podcast, nil
}

func (r *podcastRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, r.db, "podcasts", slug)
}

func (r *podcastRepo) List(ctx context.Context, status models.Status) ([]*models.Podcast, error) {
	query := "SELECT " + podcastColumns + " FROM podcasts"
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY COALESCE(published_at, created_at) DESC"

	podcasts := []*models.Podcast{}
	if err := r.db.SelectContext(ctx, &podcasts, query, args...); err != nil {
		return nil, err
	}
	return podcasts, nil
}

func (r *podcastRepo) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	return updateStatus(ctx, r.db, "podcasts", id, status)
}

func (r *podcastRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "podcasts")
}

func (r *podcastRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	return countByStatus(ctx, r.db, "podcasts")
}

// StreamAll streams all podcast episodes for export
func (r *podcastRepo) StreamAll(ctx context.Context, callback func(*models.Podcast) error) error {
	rows, err := r.db.QueryxContext(ctx, "SELECT "+podcastColumns+" FROM podcasts ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var podcast models.Podcast
		if err := rows.StructScan(&podcast); err != nil {
			return err
		}
		if err := callback(&podcast); err != nil {
			return err
		}
	}
	return rows.Err()
}
