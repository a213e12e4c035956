package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/journal-content-api/internal/listing"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/journal-content-api/internal/validation"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleInput(title string) *models.ArticleInput {
	return &models.ArticleInput{
		Title:    title,
		Excerpt:  "Short summary",
		Content:  "<p>Body</p>",
		Author:   models.NewAuthor("Ada Lovelace"),
		Category: "Science",
		Tags:     []string{" physics ", "", "physics", "optics"},
	}
}

func TestArticleService_CreateDerivesSlugAndDefaults(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	article, err := h.services.Article.Create(ctx, articleInput("Hello, World!"))
	require.NoError(t, err)

	assert.Equal(t, "hello-world", article.Slug)
	assert.Equal(t, models.StatusDraft, article.Status)
	assert.Nil(t, article.PublishedAt)
	assert.Equal(t, []string{"physics", "optics"}, []string(article.Tags))
	assert.NotEmpty(t, article.ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ContentOps.WithLabelValues("articles", "create", "success")))
}

func TestArticleService_CreateSlugCollisionGetsSuffix(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	slugs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		article, err := h.services.Article.Create(ctx, articleInput("Hello, World!"))
		require.NoError(t, err)
		slugs = append(slugs, article.Slug)
	}

	assert.Equal(t, []string{"hello-world", "hello-world-2", "hello-world-3"}, slugs)
}

func TestArticleService_CreateUnsluggableTitle(t *testing.T) {
	h := newTestHarness(t)

	article, err := h.services.Article.Create(context.Background(), articleInput("日本語のタイトル"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(article.Slug, "article-"), article.Slug)
}

func TestArticleService_CreatePublishedStampsPublishTime(t *testing.T) {
	h := newTestHarness(t)

	in := articleInput("Published Now")
	in.Status = models.StatusPublished
	article, err := h.services.Article.Create(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, article.PublishedAt)
	assert.WithinDuration(t, time.Now(), *article.PublishedAt, 5*time.Second)
}

func TestArticleService_CreateValidation(t *testing.T) {
	h := newTestHarness(t)

	in := articleInput("")
	in.Author = models.Author{}
	in.FeaturedImage = "ftp://example.com/x.png"

	_, err := h.services.Article.Create(context.Background(), in)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["author"])
	assert.True(t, fields["featured_image"])
	assert.Empty(t, h.articleRepo.Articles)
}

func TestArticleService_UpdateKeepsSlugUnlessRegenerated(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	created, err := h.services.Article.Create(ctx, articleInput("Original Title"))
	require.NoError(t, err)

	updated, err := h.services.Article.Update(ctx, created.ID, articleInput("Renamed Title"))
	require.NoError(t, err)
	assert.Equal(t, "original-title", updated.Slug)
	assert.Equal(t, "Renamed Title", updated.Title)

	in := articleInput("Renamed Title")
	in.RegenerateSlug = true
	updated, err = h.services.Article.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "renamed-title", updated.Slug)

	// Regenerating with an unchanged title keeps the record's own slug
	updated, err = h.services.Article.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "renamed-title", updated.Slug)
}

func TestArticleService_UpdateMissing(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Article.Update(context.Background(), "missing", articleInput("Anything"))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_GetPublishedBySlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	draft, err := h.services.Article.Create(ctx, articleInput("Draft Piece"))
	require.NoError(t, err)
	_, err = h.services.Article.GetPublishedBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = h.services.Article.SetStatus(ctx, draft.ID, models.StatusPublished)
	require.NoError(t, err)

	article, err := h.services.Article.GetPublishedBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), article.Views)
	assert.Equal(t, 1, h.articleRepo.Views[draft.ID])
	require.NotNil(t, article.PublishedAt)
}

func TestArticleService_ListPublishedIsCachedAndInvalidated(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	in := articleInput("First Published")
	in.Status = models.StatusPublished
	_, err := h.services.Article.Create(ctx, in)
	require.NoError(t, err)
	_, err = h.services.Article.Create(ctx, articleInput("Still A Draft"))
	require.NoError(t, err)

	list, err := h.services.Article.ListPublished(ctx, listing.ArticleQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "First Published", list[0].Title)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CacheLookups.WithLabelValues("miss")))

	// A write that bypasses the service is not visible until the cache is invalidated
	now := time.Now()
	h.articleRepo.Create(ctx, &models.Article{ID: "direct", Slug: "direct", Title: "Direct Write", Status: models.StatusPublished, PublishedAt: &now})

	list, err = h.services.Article.ListPublished(ctx, listing.ArticleQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CacheLookups.WithLabelValues("hit")))

	in = articleInput("Second Published")
	in.Status = models.StatusPublished
	_, err = h.services.Article.Create(ctx, in)
	require.NoError(t, err)

	list, err = h.services.Article.ListPublished(ctx, listing.ArticleQuery{Sort: listing.SortAlphabetical})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Direct Write", "First Published", "Second Published"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestArticleService_MostViewedSeesViewsWhileCached(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Beta"} {
		in := articleInput(title)
		in.Status = models.StatusPublished
		_, err := h.services.Article.Create(ctx, in)
		require.NoError(t, err)
	}

	list, err := h.services.Article.ListPublished(ctx, listing.ArticleQuery{Sort: listing.SortAlphabetical})
	require.NoError(t, err)
	require.Len(t, list, 2)

	for i := 0; i < 5; i++ {
		_, err := h.services.Article.GetPublishedBySlug(ctx, "beta")
		require.NoError(t, err)
	}

	list, err = h.services.Article.ListPublished(ctx, listing.ArticleQuery{Sort: listing.SortMostViewed})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Beta", list[0].Title)
	assert.Equal(t, int64(5), list[0].Views)
	assert.Equal(t, "Alpha", list[1].Title)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CacheLookups.WithLabelValues("hit")), "list itself still comes from the cache")
}

func TestArticleService_ListAdminFilters(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	for _, title := range []string{"Optics Primer", "Quantum Notes", "Optics Lab"} {
		_, err := h.services.Article.Create(ctx, articleInput(title))
		require.NoError(t, err)
	}

	list, err := h.services.Article.ListAdmin(ctx, listing.ArticleQuery{Search: "optics", Sort: listing.SortAlphabetical})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Optics Lab", list[0].Title)

	list, err = h.services.Article.ListAdmin(ctx, listing.ArticleQuery{Status: models.StatusPublished})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestArticleService_SetEditorsPick(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	created, err := h.services.Article.Create(ctx, articleInput("Pick Me"))
	require.NoError(t, err)

	article, err := h.services.Article.SetEditorsPick(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, article.IsEditorsPick)

	_, err = h.services.Article.SetEditorsPick(ctx, "missing", true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_SetStatusRejectsUnknownStatus(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	created, err := h.services.Article.Create(ctx, articleInput("Status Check"))
	require.NoError(t, err)

	_, err = h.services.Article.SetStatus(ctx, created.ID, "pending")
	var verrs validation.Errors
	assert.True(t, errors.As(err, &verrs))

	_, err = h.services.Article.SetStatus(ctx, "missing", models.StatusArchived)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_BulkDeleteReportsPerItem(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	a, err := h.services.Article.Create(ctx, articleInput("Keep Going"))
	require.NoError(t, err)
	b, err := h.services.Article.Create(ctx, articleInput("Locked Row"))
	require.NoError(t, err)
	h.articleRepo.FailIDs[b.ID] = errors.New("row is locked")

	missing := "0b7c5a2e-1111-4c3d-9e8f-000000000000"
	resp, err := h.services.Article.BulkDelete(ctx, []string{a.ID, missing, b.ID, "not-a-uuid"})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 3, resp.Failed)

	require.Len(t, resp.Results, 4)
	assert.Equal(t, models.BulkItemResult{ID: a.ID, Success: true}, resp.Results[0])
	assert.Equal(t, missing, resp.Results[1].ID)
	assert.Equal(t, service.ErrNotFound.Error(), resp.Results[1].Error)
	assert.Equal(t, "row is locked", resp.Results[2].Error)
	assert.Equal(t, models.BulkItemResult{ID: "not-a-uuid", Error: "invalid id"}, resp.Results[3])

	_, err = h.services.Article.Get(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_BulkSetStatus(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	ids := []string{}
	for _, title := range []string{"One", "Two", "Three"} {
		a, err := h.services.Article.Create(ctx, articleInput(title))
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	resp, err := h.services.Article.BulkSetStatus(ctx, ids, models.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Succeeded)

	counts, err := h.articleRepo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[models.StatusPublished])

	_, err = h.services.Article.BulkSetStatus(ctx, ids, "")
	assert.Error(t, err)

	_, err = h.services.Article.BulkSetStatus(ctx, nil, models.StatusDraft)
	assert.Error(t, err)
}

func TestArticleService_Categories(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	for _, c := range []string{"Science", "Arts", "Science", ""} {
		in := articleInput("Category " + c)
		in.Category = c
		in.Status = models.StatusPublished
		_, err := h.services.Article.Create(ctx, in)
		require.NoError(t, err)
	}
	draft := articleInput("Hidden")
	draft.Category = "Drafts Only"
	_, err := h.services.Article.Create(ctx, draft)
	require.NoError(t, err)

	categories, err := h.services.Article.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arts", "Science"}, categories)
}
