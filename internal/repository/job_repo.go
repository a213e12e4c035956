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

const jobColumns = `id, type, resource, status, COALESCE(idempotency_key, '') AS idempotency_key,
	total_records, processed_count, successful_count, failed_count, duration_ms, rows_per_sec,
	COALESCE(file_path, '') AS file_path, COALESCE(created_by, '') AS created_by,
	created_at, started_at, completed_at`

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, type, resource, status, idempotency_key, total_records,
			processed_count, successful_count, failed_count, file_path, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Resource, job.Status, nullString(job.IdempotencyKey),
		job.TotalRecords, job.ProcessedCount, job.SuccessfulCount, job.FailedCount,
		nullString(job.FilePath), nullString(job.CreatedBy), job.CreatedAt,
	)
	return err
}

// Update updates job status and counters
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			status = $1, total_records = $2, processed_count = $3, successful_count = $4,
			failed_count = $5, duration_ms = $6, rows_per_sec = $7, started_at = $8, completed_at = $9
		WHERE id = $10
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, job.TotalRecords, job.ProcessedCount, job.SuccessfulCount,
		job.FailedCount, job.DurationMs, job.RowsPerSec, job.StartedAt, job.CompletedAt, job.ID,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return r.getOne(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)
}

// GetByIdempotencyKey retrieves a job by idempotency key
func (r *jobRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return r.getOne(ctx, "SELECT "+jobColumns+" FROM jobs WHERE idempotency_key = $1", key)
}

func (r *jobRepo) getOne(ctx context.Context, query, arg string) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetPendingJobs retrieves all pending jobs, oldest first
func (r *jobRepo) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE status = $1 ORDER BY created_at"

	jobs := []*models.Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, models.JobStatusPending); err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkJobAsProcessing atomically marks a pending job as processing
func (r *jobRepo) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	query := `
		UPDATE jobs SET status = 'processing', started_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), jobID)
	if err != nil {
		return false, err
	}
	return affected(result.RowsAffected())
}

// AddErrors adds multiple validation errors using the COPY protocol
func (r *jobRepo) AddErrors(ctx context.Context, jobID string, errs []models.ValidationError) error {
	if len(errs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("job_errors",
		"job_id", "line_number", "field", "message", "value",
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range errs {
		if _, err := stmt.ExecContext(ctx, jobID, e.Line, e.Field, e.Message, errorValue(e.Value)); err != nil {
			return fmt.Errorf("copy job error line %d: %w", e.Line, err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetErrors retrieves validation errors for a job, limit <= 0 means all
func (r *jobRepo) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	query := `SELECT line_number, field, message, value FROM job_errors WHERE job_id = $1 ORDER BY line_number, id`
	args := []interface{}{jobID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var rows []struct {
		Line    int            `db:"line_number"`
		Field   string         `db:"field"`
		Message string         `db:"message"`
		Value   sql.NullString `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]models.ValidationError, 0, len(rows))
	for _, row := range rows {
		e := models.ValidationError{Line: row.Line, Field: row.Field, Message: row.Message}
		if row.Value.Valid {
			e.Value = row.Value.String
		}
		out = append(out, e)
	}
	return out, nil
}

// errorValue renders the offending value of a validation error for storage
func errorValue(v interface{}) sql.NullString {
	switch val := v.(type) {
	case nil:
		return sql.NullString{}
	case string:
		return nullString(val)
	default:
		return sql.NullString{String: fmt.Sprint(val), Valid: true}
	}
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
