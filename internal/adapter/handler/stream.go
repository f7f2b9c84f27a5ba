package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
)

// StreamServer attaches a websocket viewer to an event
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, eventID uuid.UUID, language string) error
}

// Stream handles the live viewer subscription
type Stream struct {
	events eventUsecase.Service
	hub    StreamServer
	logger *zap.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(events eventUsecase.Service, hub StreamServer, logger *zap.Logger) *Stream {
	return &Stream{
		events: events,
		hub:    hub,
		logger: logger,
	}
}

// Subscribe handles GET /events/:id/stream
// @Summary      Live event stream
// @Description  Upgrades to a websocket carrying segment_arrived, partial_updated, translation_arrived and availability_changed envelopes in publish order. Translation envelopes are limited to the connection's language, which the client changes by sending {"action":"language","language":"fr"}.
// @Tags         Realtime
// @Param        id        path   string  true   "Event ID (UUID) or uid"
// @Param        language  query  string  false  "Initial translation language"
// @Success      101  "Switching Protocols"
// @Failure      404  {object}  common.ErrorResponse  "Event not found"
// @Router       /events/{id}/stream [get]
func (h *Stream) Subscribe(c echo.Context) error {
	event, err := h.events.ResolveEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	// The upgrader writes its own error response, so the request is done
	// either way.
	if err := h.hub.ServeWS(c.Response(), c.Request(), event.ID, c.QueryParam("language")); err != nil {
		if h.logger != nil {
			h.logger.Warn("⚠️ Websocket subscription failed",
				zap.String("event_id", event.ID.String()),
				zap.String("request_id", getRequestID(c)),
				zap.Error(err),
			)
		}
		return nil
	}

	if h.logger != nil {
		h.logger.Debug("viewer subscribed",
			zap.String("event_id", event.ID.String()),
			zap.String("language_code", c.QueryParam("language")),
		)
	}
	return nil
}
