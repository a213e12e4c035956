package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/journal-content-api/internal/listing"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/rs/zerolog"
)

// parseArticleQuery reads search, category, editors_pick, status and sort
func parseArticleQuery(c *gin.Context) (listing.ArticleQuery, bool) {
	sort, err := listing.ParseSortKey(c.Query("sort"))
	if err != nil {
		badRequest(c, err.Error())
		return listing.ArticleQuery{}, false
	}
	pick, err := listing.ParseEditorsPick(c.Query("editors_pick"))
	if err != nil {
		badRequest(c, err.Error())
		return listing.ArticleQuery{}, false
	}
	status, ok := parseStatusFilter(c)
	if !ok {
		return listing.ArticleQuery{}, false
	}
	return listing.ArticleQuery{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		EditorsPick: pick,
		Status:      status,
		Sort:        sort,
	}, true
}

func parseMediaQuery(c *gin.Context) (listing.MediaQuery, bool) {
	sort, err := listing.ParseSortKey(c.Query("sort"))
	if err != nil {
		badRequest(c, err.Error())
		return listing.MediaQuery{}, false
	}
	status, ok := parseStatusFilter(c)
	if !ok {
		return listing.MediaQuery{}, false
	}
	return listing.MediaQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   status,
		Sort:     sort,
	}, true
}

func parseStatusFilter(c *gin.Context) (models.Status, bool) {
	status := models.Status(c.Query("status"))
	if status == "" || status == listing.All {
		return "", true
	}
	if !status.IsValid() {
		badRequest(c, "status must be one of: draft, published, archived")
		return "", false
	}
	return status, true
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

type editorsPickRequest struct {
	IsEditorsPick *bool `json:"is_editors_pick"`
}

func listResponse[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
}

// ArticleHandler serves the public article pages and the admin article console
type ArticleHandler struct {
	articles service.ArticleService
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articles service.ArticleService, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// ListPublished handles GET /v1/articles
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	q, ok := parseArticleQuery(c)
	if !ok {
		return
	}
	articles, err := h.articles.ListPublished(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "list articles")
		return
	}
	listResponse(c, articles)
}

// Categories handles GET /v1/articles/categories
func (h *ArticleHandler) Categories(c *gin.Context) {
	categories, err := h.articles.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GetPublished handles GET /v1/articles/:slug
func (h *ArticleHandler) GetPublished(c *gin.Context) {
	article, err := h.articles.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err, "get article")
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) ListAdmin(c *gin.Context) {
	q, ok := parseArticleQuery(c)
	if !ok {
		return
	}
	articles, err := h.articles.ListAdmin(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "list articles")
		return
	}
	listResponse(c, articles)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "get article")
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	article, err := h.articles.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err, "create article")
		return
	}
	c.JSON(http.StatusCreated, article)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	article, err := h.articles.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err, "update article")
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "delete article")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetStatus handles PATCH /v1/admin/articles/:id/status
func (h *ArticleHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	article, err := h.articles.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err, "update article status")
		return
	}
	c.JSON(http.StatusOK, article)
}

// SetEditorsPick handles PATCH /v1/admin/articles/:id/editors-pick
func (h *ArticleHandler) SetEditorsPick(c *gin.Context) {
	var req editorsPickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsEditorsPick == nil {
		badRequest(c, "is_editors_pick is required")
		return
	}
	article, err := h.articles.SetEditorsPick(c.Request.Context(), c.Param("id"), *req.IsEditorsPick)
	if err != nil {
		respondError(c, h.log, err, "update editor's pick")
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) BulkDelete(c *gin.Context) {
	var req models.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	resp, err := h.articles.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.log, err, "delete articles")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArticleHandler) BulkStatus(c *gin.Context) {
	var req models.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	resp, err := h.articles.BulkSetStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		respondError(c, h.log, err, "update article status")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VideoHandler serves the public video pages and the admin video console
type VideoHandler struct {
	videos service.VideoService
	log    zerolog.Logger
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videos service.VideoService, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		videos: videos,
		log:    log.With().Str("handler", "video").Logger(),
	}
}

// ListPublished handles GET /v1/videos
func (h *VideoHandler) ListPublished(c *gin.Context) {
	q, ok := parseMediaQuery(c)
	if !ok {
		return
	}
	videos, err := h.videos.ListPublished(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "list videos")
		return
	}
	listResponse(c, videos)
}

// GetPublished handles GET /v1/videos/:id
func (h *VideoHandler) GetPublished(c *gin.Context) {
	video, err := h.videos.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "get video")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) ListAdmin(c *gin.Context) {
	q, ok := parseMediaQuery(c)
	if !ok {
		return
	}
	videos, err := h.videos.ListAdmin(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "list videos")
		return
	}
	listResponse(c, videos)
}

func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.videos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "get video")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) Create(c *gin.Context) {
	var in models.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	video, err := h.videos.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err, "create video")
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *VideoHandler) Update(c *gin.Context) {
	var in models.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	video, err := h.videos.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err, "update video")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "delete video")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VideoHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	video, err := h.videos.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err, "update video status")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) BulkDelete(c *gin.Context) {
	var req models.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	resp, err := h.videos.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.log, err, "delete videos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PodcastHandler serves the public podcast pages and the admin podcast console
type PodcastHandler struct {
	podcasts service.PodcastService
	log      zerolog.Logger
}

// NewPodcastHandler creates a new PodcastHandler
func NewPodcastHandler(podcasts service.PodcastService, log zerolog.Logger) *PodcastHandler {
	return &PodcastHandler{
		podcasts: podcasts,
		log:      log.With().Str("handler", "podcast").Logger(),
	}
}

// ListPublished handles GET /v1/podcasts
func (h *PodcastHandler) ListPublished(c *gin.Context) {
	q, ok := parseMediaQuery(c)
	if !ok {
		return
	}
	podcasts, err := h.podcasts.ListPublished(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "list podcasts")
		return
	}
	listResponse(c, podcasts)
}

// GetPublished handles GET /v1/podcasts/:slug
func (h *PodcastHandler) GetPublished(c *gin.Context) {
	podcast, err := h.podcasts.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err, "get podcast")
		return
	}
	c.JSON(http.StatusOK, podcast)
}

func (h *PodcastHandler) ListAdmin(c *gin.Context) {
	q, ok := parseMediaQuery(c)
	if !ok {
		return
	}
	podcasts, err := h.podcasts.ListAdmin(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "list podcasts")
		return
	}
	listResponse(c, podcasts)
}

func (h *PodcastHandler) Get(c *gin.Context) {
	podcast, err := h.podcasts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "get podcast")
		return
	}
	c.JSON(http.StatusOK, podcast)
}

func (h *PodcastHandler) Create(c *gin.Context) {
	var in models.PodcastInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	podcast, err := h.podcasts.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err, "create podcast")
		return
	}
	c.JSON(http.StatusCreated, podcast)
}

func (h *PodcastHandler) Update(c *gin.Context) {
	var in models.PodcastInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	podcast, err := h.podcasts.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err, "update podcast")
		return
	}
	c.JSON(http.StatusOK, podcast)
}

func (h *PodcastHandler) Delete(c *gin.Context) {
	if err := h.podcasts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "delete podcast")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PodcastHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	podcast, err := h.podcasts.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err, "update podcast status")
		return
	}
	c.JSON(http.StatusOK, podcast)
}

func (h *PodcastHandler) BulkDelete(c *gin.Context) {
	var req models.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	resp, err := h.podcasts.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.log, err, "delete podcasts")
		return
	}
	c.JSON(http.StatusOK, resp)
}
