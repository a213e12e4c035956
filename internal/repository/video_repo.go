package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/journal-content-api/internal/database"
	"github.com/journal-content-api/internal/models"
	"github.com/lib/pq"
)

const videoColumns = `id, title, description, youtube_url, youtube_id, category, status,
	published_at, created_at, updated_at`

type videoRepo struct {
	db *database.DB
}

// NewVideoRepo creates a new video repository
func NewVideoRepo(db *database.DB) VideoRepository {
	return &videoRepo{db: db}
}

func (r *videoRepo) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, title, description, youtube_url, youtube_id, category, status,
			published_at, created_at, updated_at)
		VALUES (:id, :title, :description, :youtube_url, :youtube_id, :category, :status,
			:published_at, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, video)
	return err
}

func (r *videoRepo) Update(ctx context.Context, video *models.Video) (bool, error) {
	query := `
		UPDATE videos SET
			title = :title, description = :description, youtube_url = :youtube_url,
			youtube_id = :youtube_id, category = :category, status = :status,
			published_at = :published_at, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, video)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

func (r *videoRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "videos", id)
}

// GetByID retrieves a video by ID
func (r *videoRepo) GetByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	err := r.db.GetContext(ctx, &video, "SELECT "+videoColumns+" FROM videos WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) List(ctx context.Context, status models.Status) ([]*models.Video, error) {
	query := "SELECT " + videoColumns + " FROM videos"
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY COALESCE(published_at, created_at) DESC"

	videos := []*models.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, args...); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepo) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	return updateStatus(ctx, r.db, "videos", id, status)
}

// BatchInsert inserts multiple videos using PostgreSQL COPY
func (r *videoRepo) BatchInsert(ctx context.Context, videos []*models.Video) (int, error) {
	if len(videos) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("videos",
		"id", "title", "description", "youtube_url", "youtube_id", "category", "status",
		"published_at", "created_at", "updated_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
	for _, v := range videos {
		_, err := stmt.ExecContext(ctx,
			v.ID, v.Title, v.Description, v.YouTubeURL, v.YouTubeID, v.Category, string(v.Status),
			v.PublishedAt, v.CreatedAt, now,
		)
		if err != nil {
			return 0, fmt.Errorf("copy video %s: %w", v.ID, err)
		}
		inserted++
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *videoRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "videos")
}

func (r *videoRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	return countByStatus(ctx, r.db, "videos")
}

// StreamAll streams all videos for export
func (r *videoRepo) StreamAll(ctx context.Context, callback func(*models.Video) error) error {
	rows, err := r.db.QueryxContext(ctx, "SELECT "+videoColumns+" FROM videos ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var video models.Video
		if err := rows.StructScan(&video); err != nil {
			return err
		}
		if err := callback(&video); err != nil {
			return err
		}
	}
	return rows.Err()
}
