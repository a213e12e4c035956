package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/admin/exports?resource=...&format=...
// and streams the export directly to the response.
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	resource := c.Query("resource")
	if resource == "" {
		badRequest(c, "resource parameter is required (articles, videos, podcasts)")
		return
	}
	if !models.ExportableResources[resource] {
		badRequest(c, "resource must be one of: articles, videos, podcasts")
		return
	}

	format := c.DefaultQuery("format", service.FormatNDJSON)
	if format != service.FormatNDJSON && format != service.FormatJSON && format != service.FormatCSV {
		badRequest(c, "format must be one of: ndjson, json, csv")
		return
	}
	if format == service.FormatCSV && resource != models.ResourceArticles {
		badRequest(c, "CSV format only supported for articles export")
		return
	}

	h.log.Info().
		Str("resource", resource).
		Str("format", format).
		Msg("Starting streaming export")

	if count, err := h.services.Export.GetCount(ctx, resource); err == nil {
		c.Header("X-Total-Count", strconv.Itoa(count))
	} else {
		h.log.Warn().Err(err).Str("resource", resource).Msg("Failed to count export records")
	}

	c.Status(http.StatusOK)
	if err := h.services.Export.StreamResource(ctx, c.Writer, resource, format); err != nil {
		// Headers are already out once streaming starts
		h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
	}
}
