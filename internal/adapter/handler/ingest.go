package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	eventdto "github.com/johnquangdev/caption-relay/internal/adapter/dto/event"
	"github.com/johnquangdev/caption-relay/internal/adapter/presenter"
	ingestUsecase "github.com/johnquangdev/caption-relay/internal/usecase/ingest"
)

// Ingest handles the transcriber-facing write endpoints
type Ingest struct {
	ingest ingestUsecase.Service
	logger *zap.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingest ingestUsecase.Service, logger *zap.Logger) *Ingest {
	return &Ingest{
		ingest: ingest,
		logger: logger,
	}
}

// AppendSegment handles POST /events/:id/segments
// @Summary      Append a finalized segment
// @Description  Stores a finalized transcript unit. Without sequence_number the next one is assigned; with one, a repeat is idempotent.
// @Tags         Ingest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Event ID (UUID) or uid"
// @Param        request  body      event.AppendSegmentRequest  true  "Segment"
// @Success      201      {object}  event.AppendSegmentResponse  "Segment stored"
// @Success      200      {object}  event.AppendSegmentResponse  "Segment already stored"
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Failure      403      {object}  common.ErrorResponse  "Not the event owner"
// @Router       /events/{id}/segments [post]
func (h *Ingest) AppendSegment(c echo.Context) error {
	event, err := ownedEvent(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req eventdto.AppendSegmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	segment, created, err := h.ingest.AppendSegment(c.Request().Context(), ingestUsecase.AppendSegmentInput{
		EventID:        event.ID,
		Text:           req.Text,
		LanguageCode:   req.LanguageCode,
		SequenceNumber: req.SequenceNumber,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := &eventdto.AppendSegmentResponse{
		Segment: presenter.ToSegmentResponse(segment),
		Created: created,
	}
	if created {
		return HandleCreated(h.logger, c, resp)
	}
	return HandleSuccess(h.logger, c, resp)
}

// UpdatePartial handles POST /events/:id/partial
// @Summary      Replace the partial text
// @Description  Replaces the event's in-progress text and notifies live viewers. Empty text clears it.
// @Tags         Ingest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Event ID (UUID) or uid"
// @Param        request  body      event.UpdatePartialRequest  true  "Partial"
// @Success      200      {object}  event.PartialResponse  "Partial stored"
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Failure      403      {object}  common.ErrorResponse  "Not the event owner"
// @Router       /events/{id}/partial [post]
func (h *Ingest) UpdatePartial(c echo.Context) error {
	event, err := ownedEvent(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req eventdto.UpdatePartialRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	partial, err := h.ingest.UpdatePartial(c.Request().Context(), ingestUsecase.UpdatePartialInput{
		EventID:      event.ID,
		Text:         req.Text,
		LanguageCode: req.LanguageCode,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPartialResponse(event.ID, partial))
}
