package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/journal-content-api/internal/auth"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles admin console sign-in and the dashboard endpoints
type AuthHandler struct {
	auth  service.AuthService
	stats service.StatsService
	log   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, stats service.StatsService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:  authService,
		stats: stats,
		log:   log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err, "sign in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me handles GET /v1/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, h.log, err, "load account")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Stats handles GET /v1/admin/stats
func (h *AuthHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
