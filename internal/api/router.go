package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/journal-content-api/internal/auth"
	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, tokens *auth.TokenManager, m *metrics.Metrics, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(m.Middleware())
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))

	// Handlers
	articles := NewArticleHandler(services.Article, log)
	videos := NewVideoHandler(services.Video, log)
	podcasts := NewPodcastHandler(services.Podcast, log)
	authHandler := NewAuthHandler(services.Auth, services.Stats, log)
	importHandler := NewImportHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)

	byID := uuidParam("id")
	byJobID := uuidParam("job_id")

	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/articles", articles.ListPublished)
		v1.GET("/articles/categories", articles.Categories)
		v1.GET("/articles/:slug", articles.GetPublished)
		v1.GET("/videos", videos.ListPublished)
		v1.GET("/videos/:id", byID, videos.GetPublished)
		v1.GET("/podcasts", podcasts.ListPublished)
		v1.GET("/podcasts/:slug", podcasts.GetPublished)

		v1.POST("/auth/login", rateLimit(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), authHandler.Login)
	}

	admin := v1.Group("/admin", auth.Middleware(tokens))
	{
		admin.GET("/me", authHandler.Me)
		admin.GET("/stats", authHandler.Stats)

		a := admin.Group("/articles")
		{
			a.GET("", articles.ListAdmin)
			a.POST("", articles.Create)
			a.POST("/bulk-delete", auth.RequireRole(models.RoleAdmin), articles.BulkDelete)
			a.POST("/bulk-status", articles.BulkStatus)
			a.GET("/:id", byID, articles.Get)
			a.PUT("/:id", byID, articles.Update)
			a.DELETE("/:id", byID, articles.Delete)
			a.PATCH("/:id/status", byID, articles.SetStatus)
			a.PATCH("/:id/editors-pick", byID, articles.SetEditorsPick)
		}

		v := admin.Group("/videos")
		{
			v.GET("", videos.ListAdmin)
			v.POST("", videos.Create)
			v.POST("/bulk-delete", auth.RequireRole(models.RoleAdmin), videos.BulkDelete)
			v.GET("/:id", byID, videos.Get)
			v.PUT("/:id", byID, videos.Update)
			v.DELETE("/:id", byID, videos.Delete)
			v.PATCH("/:id/status", byID, videos.SetStatus)
		}

		p := admin.Group("/podcasts")
		{
			p.GET("", podcasts.ListAdmin)
			p.POST("", podcasts.Create)
			p.POST("/bulk-delete", auth.RequireRole(models.RoleAdmin), podcasts.BulkDelete)
			p.GET("/:id", byID, podcasts.Get)
			p.PUT("/:id", byID, podcasts.Update)
			p.DELETE("/:id", byID, podcasts.Delete)
			p.PATCH("/:id/status", byID, podcasts.SetStatus)
		}

		imports := admin.Group("/imports")
		{
			imports.POST("", auth.RequireRole(models.RoleAdmin), importHandler.CreateImport)
			imports.GET("/:job_id", byJobID, importHandler.GetImportStatus)
			imports.GET("/:job_id/errors", byJobID, importHandler.GetImportErrors)
		}

		admin.GET("/exports", exportHandler.StreamExport)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "journal-content-api",
	})
}

// uuidParam answers 404 for a path ID that is not a UUID, since no stored
// record can carry it
func uuidParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(name)); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware lets the public site and admin console call the API
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// rateLimit applies a per-IP httprate limiter to a gin route. A non-positive
// limit disables it.
func rateLimit(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(gin.H{"error": "too many login attempts, try again later"})
		}),
	)

	return func(c *gin.Context) {
		passed := false
		limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
