package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/journal-content-api/internal/service"
	"github.com/journal-content-api/internal/validation"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP responses. Anything unrecognized
// is logged and reported as a 500 without leaking the cause.
func respondError(c *gin.Context, log zerolog.Logger, err error, action string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": []validation.ValidationError(verrs)})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Failed to " + action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
