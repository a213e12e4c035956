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

const articleColumns = `id, slug, title, excerpt, content, author_name, category, tags, featured_image,
	status, is_editors_pick, views, published_at, created_at, updated_at`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, slug, title, excerpt, content, author_name, category, tags,
			featured_image, status, is_editors_pick, views, published_at, created_at, updated_at)
		VALUES (:id, :slug, :title, :excerpt, :content, :author_name, :category, :tags,
			:featured_image, :status, :is_editors_pick, :views, :published_at, :created_at, :updated_at)
	`
	if article.Tags == nil {
		article.Tags = pq.StringArray{}
	}
	_, err := r.db.NamedExecContext(ctx, query, article)
	return err
}

// Update overwrites the editable fields of an article. The view counter is left alone.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) (bool, error) {
	query := `
		UPDATE articles SET
			slug = :slug, title = :title, excerpt = :excerpt, content = :content,
			author_name = :author_name, category = :category, tags = :tags,
			featured_image = :featured_image, status = :status,
			is_editors_pick = :is_editors_pick, published_at = :published_at,
			updated_at = :updated_at
		WHERE id = :id
	`
	if article.Tags == nil {
		article.Tags = pq.StringArray{}
	}
	result, err := r.db.NamedExecContext(ctx, query, article)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

// Delete removes an article permanently
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "articles", id)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return r.getOne(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = $1", id)
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.getOne(ctx, "SELECT "+articleColumns+" FROM articles WHERE slug = $1", slug)
}

func (r *articleRepo) getOne(ctx context.Context, query string, arg string) (*models.Article, error) {
	var article models.Article
	err := r.db.GetContext(ctx, &article, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, r.db, "articles", slug)
}

// List returns articles, optionally restricted to one status, newest first
func (r *articleRepo) List(ctx context.Context, status models.Status) ([]*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles"
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY COALESCE(published_at, created_at) DESC"

	articles := []*models.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, err
	}
	return articles, nil
}

// UpdateStatus changes the publication status, stamping published_at on first publish
func (r *articleRepo) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	return updateStatus(ctx, r.db, "articles", id, status)
}

// SetEditorsPick toggles the editor's pick flag
func (r *articleRepo) SetEditorsPick(ctx context.Context, id string, pick bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE articles SET is_editors_pick = $1, updated_at = $2 WHERE id = $3",
		pick, time.Now().UTC(), id,
	)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

// IncrementViews bumps the view counter atomically
func (r *articleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET views = views + 1 WHERE id = $1", id)
	return err
}

// ViewCounts returns the current view counter per article, optionally for one status
func (r *articleRepo) ViewCounts(ctx context.Context, status models.Status) (map[string]int64, error) {
	query := "SELECT id, views FROM articles"
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}

	var rows []struct {
		ID    string `db:"id"`
		Views int64  `db:"views"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Views
	}
	return counts, nil
}

// BatchInsert inserts multiple articles using PostgreSQL COPY
func (r *articleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("articles",
		"id", "slug", "title", "excerpt", "content", "author_name", "category", "tags",
		"featured_image", "status", "is_editors_pick", "views", "published_at", "created_at", "updated_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0

	for _, a := range articles {
		tags := a.Tags
		if tags == nil {
			tags = pq.StringArray{}
		}
		_, err := stmt.ExecContext(ctx,
			a.ID, a.Slug, a.Title, a.Excerpt, a.Content, a.Author.DisplayName, a.Category, tags,
			a.FeaturedImage, string(a.Status), a.IsEditorsPick, a.Views, a.PublishedAt, a.CreatedAt, now,
		)
		if err != nil {
			return 0, fmt.Errorf("copy article %s: %w", a.ID, err)
		}
		inserted++
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "articles")
}

// CountByStatus returns article counts keyed by status
func (r *articleRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	return countByStatus(ctx, r.db, "articles")
}

// StreamAll streams all articles for export
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryxContext(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var article models.Article
		if err := rows.StructScan(&article); err != nil {
			return err
		}
		if err := callback(&article); err != nil {
			return err
		}
	}

	return rows.Err()
}
