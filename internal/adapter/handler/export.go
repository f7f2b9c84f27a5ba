package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/errors"
	eventdto "github.com/johnquangdev/caption-relay/internal/adapter/dto/event"
	"github.com/johnquangdev/caption-relay/internal/adapter/presenter"
	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
	exportUsecase "github.com/johnquangdev/caption-relay/internal/usecase/export"
	"github.com/johnquangdev/caption-relay/internal/viewer"
)

// Export handles transcript export requests
type Export struct {
	events eventUsecase.Service
	export exportUsecase.Service
	logger *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(events eventUsecase.Service, export exportUsecase.Service, logger *zap.Logger) *Export {
	return &Export{
		events: events,
		export: export,
		logger: logger,
	}
}

// ExportTranscript handles GET /events/:id/export
// @Summary      Export transcript
// @Description  Renders the finalized transcript as plain text the way the viewer shows it. With object storage enabled the text is archived and a presigned URL is returned instead.
// @Tags         Export
// @Produce      json
// @Param        id        path      string  true   "Event ID (UUID) or uid"
// @Param        language  query     string  false  "Translation language"
// @Param        mode      query     string  false  "original, translation or both (default both)"
// @Success      200       {object}  event.ExportResponse  "Export"
// @Failure      400       {object}  common.ErrorResponse  "Invalid request"
// @Failure      404       {object}  common.ErrorResponse  "Event not found"
// @Failure      500       {object}  common.ErrorResponse  "Export failed"
// @Router       /events/{id}/export [get]
func (h *Export) ExportTranscript(c echo.Context) error {
	var req eventdto.ExportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	mode, err := viewer.ParseViewMode(req.Mode)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	event, err := h.events.ResolveEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.export.Export(c.Request().Context(), exportUsecase.ExportInput{
		EventID:  event.ID,
		Language: req.Language,
		Mode:     mode,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToExportResponse(result))
}

// ListExports handles GET /events/:id/exports
// @Summary      List archived exports
// @Description  Lists export objects stored for the event
// @Tags         Export
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID (UUID) or uid"
// @Success      200  {array}   string  "Object names"
// @Failure      403  {object}  common.ErrorResponse  "Not the event owner"
// @Failure      501  {object}  common.ErrorResponse  "Object storage disabled"
// @Router       /events/{id}/exports [get]
func (h *Export) ListExports(c echo.Context) error {
	event, err := ownedEvent(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	files, err := h.export.ListExports(c.Request().Context(), event.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, files)
}
