package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/journal-content-api/internal/mocks"
	"github.com/journal-content-api/internal/models"
)

func TestMockArticleRepository_BatchInsert(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	articles := []*models.Article{
		{ID: "a-1", Slug: "first", Title: "First", Status: models.StatusDraft, CreatedAt: time.Now()},
		{ID: "a-2", Slug: "second", Title: "Second", Status: models.StatusPublished, CreatedAt: time.Now()},
		{ID: "a-3", Slug: "third", Title: "Third", Status: models.StatusArchived, CreatedAt: time.Now()},
	}

	inserted, err := repo.BatchInsert(ctx, articles)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if inserted != 3 {
		t.Errorf("Expected 3 inserted, got %d", inserted)
	}
	if repo.BatchInsertCalls != 1 {
		t.Errorf("Expected 1 batch call, got %d", repo.BatchInsertCalls)
	}

	exists, _ := repo.SlugExists(ctx, "second")
	if !exists {
		t.Error("Expected slug 'second' to exist")
	}

	counts, _ := repo.CountByStatus(ctx)
	for _, status := range []models.Status{models.StatusDraft, models.StatusPublished, models.StatusArchived} {
		if counts[status] != 1 {
			t.Errorf("Expected 1 %s article, got %d", status, counts[status])
		}
	}
}

func TestMockArticleRepository_UpdateStatusStampsPublishTime(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.Article{ID: "a-1", Slug: "draft", Status: models.StatusDraft})

	ok, err := repo.UpdateStatus(ctx, "a-1", models.StatusPublished)
	if err != nil || !ok {
		t.Fatalf("Expected update to succeed, got ok=%v err=%v", ok, err)
	}

	article, _ := repo.GetByID(ctx, "a-1")
	if article.PublishedAt == nil {
		t.Fatal("Expected published_at to be stamped")
	}
	first := *article.PublishedAt

	repo.UpdateStatus(ctx, "a-1", models.StatusArchived)
	repo.UpdateStatus(ctx, "a-1", models.StatusPublished)
	article, _ = repo.GetByID(ctx, "a-1")
	if !article.PublishedAt.Equal(first) {
		t.Error("Expected republishing to keep the first publish time")
	}

	ok, _ = repo.UpdateStatus(ctx, "missing", models.StatusPublished)
	if ok {
		t.Error("Expected no row affected for unknown id")
	}
}

func TestMockArticleRepository_ListFiltersByStatus(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	for i, status := range []models.Status{models.StatusDraft, models.StatusPublished, models.StatusPublished} {
		repo.Create(ctx, &models.Article{ID: fmt.Sprintf("a-%d", i), Slug: fmt.Sprintf("s-%d", i), Status: status})
	}

	published, _ := repo.List(ctx, models.StatusPublished)
	if len(published) != 2 {
		t.Errorf("Expected 2 published articles, got %d", len(published))
	}

	all, _ := repo.List(ctx, "")
	if len(all) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(all))
	}

	// List returns copies
	all[0].Title = "changed"
	again, _ := repo.GetByID(ctx, all[0].ID)
	if again.Title == "changed" {
		t.Error("Expected List to return copies")
	}
}

func TestMockUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.User{ID: "u-1", Email: "editor@journal.test", Role: models.RoleEditor})

	exists, _ := repo.EmailExists(ctx, "Editor@Journal.test")
	if !exists {
		t.Error("Expected email lookup to ignore case")
	}

	count, _ := repo.Count(ctx)
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}
}

func TestMockJobRepository_PendingJobs(t *testing.T) {
	repo := mocks.NewMockJobRepository()
	ctx := context.Background()

	jobs := []*models.Job{
		{ID: "job-1", Status: models.JobStatusPending},
		{ID: "job-2", Status: models.JobStatusProcessing},
		{ID: "job-3", Status: models.JobStatusPending},
		{ID: "job-4", Status: models.JobStatusCompleted},
	}

	for _, job := range jobs {
		repo.Create(ctx, job)
	}

	pending, err := repo.GetPendingJobs(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pending) != 2 {
		t.Errorf("Expected 2 pending jobs, got %d", len(pending))
	}
}

func TestMockJobRepository_MarkAsProcessing(t *testing.T) {
	repo := mocks.NewMockJobRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.Job{ID: "job-1", Status: models.JobStatusPending})

	marked, err := repo.MarkJobAsProcessing(ctx, "job-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !marked {
		t.Error("Expected job to be marked as processing")
	}

	// Second attempt should fail (already processing)
	marked, _ = repo.MarkJobAsProcessing(ctx, "job-1")
	if marked {
		t.Error("Expected second mark attempt to fail")
	}
}

func TestMockJobRepository_ValidationErrors(t *testing.T) {
	repo := mocks.NewMockJobRepository()
	ctx := context.Background()

	errors := make([]models.ValidationError, 150)
	for i := range errors {
		errors[i] = models.ValidationError{Line: i + 1, Field: "title", Message: "title is required"}
	}
	repo.AddErrors(ctx, "job-1", errors)

	limited, _ := repo.GetErrors(ctx, "job-1", 100)
	if len(limited) != 100 {
		t.Errorf("Expected 100 errors with limit, got %d", len(limited))
	}

	all, _ := repo.GetErrors(ctx, "job-1", 0)
	if len(all) != 150 {
		t.Errorf("Expected all 150 errors, got %d", len(all))
	}
}

func TestMockJobRepository_IdempotencyKey(t *testing.T) {
	repo := mocks.NewMockJobRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.Job{ID: "job-1", IdempotencyKey: "unique-key-123", Status: models.JobStatusPending})

	found, err := repo.GetByIdempotencyKey(ctx, "unique-key-123")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if found == nil || found.ID != "job-1" {
		t.Errorf("Expected job-1, got %v", found)
	}

	notFound, _ := repo.GetByIdempotencyKey(ctx, "nonexistent")
	if notFound != nil {
		t.Error("Expected nil for nonexistent key")
	}
}
