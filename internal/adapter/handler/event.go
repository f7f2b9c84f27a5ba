package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/errors"
	"github.com/johnquangdev/caption-relay/internal/adapter/dto/common"
	eventdto "github.com/johnquangdev/caption-relay/internal/adapter/dto/event"
	"github.com/johnquangdev/caption-relay/internal/adapter/presenter"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
)

// Event handles event and read-side HTTP requests
type Event struct {
	events eventUsecase.Service
	logger *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events eventUsecase.Service, logger *zap.Logger) *Event {
	return &Event{
		events: events,
		logger: logger,
	}
}

// CreateEvent handles POST /events
// @Summary      Create an event
// @Description  Creates a live captioning event owned by the caller and activates its initial languages
// @Tags         Events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      event.CreateEventRequest  true  "Event creation request"
// @Success      201      {object}  event.EventResponse  "Event created"
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Failure      401      {object}  common.ErrorResponse  "User not authenticated"
// @Router       /events [post]
func (h *Event) CreateEvent(c echo.Context) error {
	var req eventdto.CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, ok := currentUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	event, err := h.events.CreateEvent(c.Request().Context(), eventUsecase.CreateEventInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Languages:   req.Languages,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, presenter.ToEventResponse(event))
}

// ListEvents handles GET /events
// @Summary      List my events
// @Description  Lists events owned by the caller, newest first
// @Tags         Events
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (max 100)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {object}  common.ListResponse  "Events"
// @Failure      401     {object}  common.ErrorResponse  "User not authenticated"
// @Router       /events [get]
func (h *Event) ListEvents(c echo.Context) error {
	var req eventdto.ListEventsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, ok := currentUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	events, err := h.events.ListOwnedEvents(c.Request().Context(), userID, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, common.ListResponse{
		Data: presenter.ToEventListResponse(events),
		Pagination: &common.PaginationResponse{
			Limit:  req.Limit,
			Offset: req.Offset,
			Count:  len(events),
		},
	})
}

// GetEvent handles GET /events/:id
// @Summary      Get event
// @Description  Gets an event by id or uid
// @Tags         Events
// @Produce      json
// @Param        id   path      string  true  "Event ID (UUID) or uid"
// @Success      200  {object}  event.EventResponse  "Event"
// @Failure      404  {object}  common.ErrorResponse  "Event not found"
// @Router       /events/{id} [get]
func (h *Event) GetEvent(c echo.Context) error {
	event, err := h.resolve(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToEventResponse(event))
}

// ListSegments handles GET /events/:id/segments
// @Summary      List finalized segments
// @Description  Returns the finalized transcript in sequence order
// @Tags         Transcript
// @Produce      json
// @Param        id   path      string  true  "Event ID (UUID) or uid"
// @Success      200  {array}   event.SegmentResponse  "Segments"
// @Failure      404  {object}  common.ErrorResponse  "Event not found"
// @Router       /events/{id}/segments [get]
func (h *Event) ListSegments(c echo.Context) error {
	event, err := h.resolve(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	segments, err := h.events.ListSegments(c.Request().Context(), event.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSegmentListResponse(segments))
}

// ListTranslations handles GET /events/:id/translations?language=
// @Summary      List translations
// @Description  Returns the stored translations of one language in sequence order. Rows stay readable after the language is disabled.
// @Tags         Transcript
// @Produce      json
// @Param        id        path      string  true  "Event ID (UUID) or uid"
// @Param        language  query     string  true  "Language code"
// @Success      200       {array}   translation.TranslationResponse  "Translations"
// @Failure      400       {object}  common.ErrorResponse  "Invalid language"
// @Failure      404       {object}  common.ErrorResponse  "Event not found"
// @Router       /events/{id}/translations [get]
func (h *Event) ListTranslations(c echo.Context) error {
	event, err := h.resolve(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	rows, err := h.events.ListTranslations(c.Request().Context(), event.ID, c.QueryParam("language"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTranslationListResponse(rows))
}

// ListLanguages handles GET /events/:id/languages
// @Summary      List languages
// @Description  Returns the language availability set of an event
// @Tags         Languages
// @Produce      json
// @Param        id   path      string  true  "Event ID (UUID) or uid"
// @Success      200  {array}   event.LanguageResponse  "Languages"
// @Failure      404  {object}  common.ErrorResponse  "Event not found"
// @Router       /events/{id}/languages [get]
func (h *Event) ListLanguages(c echo.Context) error {
	event, err := h.resolve(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	languages, err := h.events.ListLanguages(c.Request().Context(), event.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToLanguageListResponse(languages))
}

// GetPartial handles GET /events/:id/partial
// @Summary      Get partial text
// @Description  Returns the current in-progress text. An empty text means no partial.
// @Tags         Transcript
// @Produce      json
// @Param        id   path      string  true  "Event ID (UUID) or uid"
// @Success      200  {object}  event.PartialResponse  "Partial"
// @Failure      404  {object}  common.ErrorResponse  "Event not found"
// @Router       /events/{id}/partial [get]
func (h *Event) GetPartial(c echo.Context) error {
	event, err := h.resolve(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	partial, err := h.events.GetPartial(c.Request().Context(), event.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPartialResponse(event.ID, partial))
}

// SetLanguage handles PUT /events/:id/languages/:code
// @Summary      Activate or deactivate a language
// @Description  Upserts language availability and notifies live viewers
// @Tags         Languages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Event ID (UUID) or uid"
// @Param        code     path      string                    true  "Language code"
// @Param        request  body      event.SetLanguageRequest  true  "Availability"
// @Success      200      {object}  event.LanguageResponse  "Updated language"
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Failure      403      {object}  common.ErrorResponse  "Not the event owner"
// @Router       /events/{id}/languages/{code} [put]
func (h *Event) SetLanguage(c echo.Context) error {
	event, err := ownedEvent(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req eventdto.SetLanguageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	availability, err := h.events.SetLanguage(c.Request().Context(), event.ID, c.Param("code"), *req.IsActive)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToLanguageResponse(availability))
}

// ListDispatchRuns handles GET /events/:id/dispatch-runs
// @Summary      List dispatch runs
// @Description  Returns the latest translation dispatch audit rows
// @Tags         Translations
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Event ID (UUID) or uid"
// @Param        limit  query     int     false  "Max rows (default 20)"
// @Success      200    {array}   event.DispatchRunResponse  "Dispatch runs"
// @Failure      403    {object}  common.ErrorResponse  "Not the event owner"
// @Router       /events/{id}/dispatch-runs [get]
func (h *Event) ListDispatchRuns(c echo.Context) error {
	event, err := ownedEvent(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	runs, err := h.events.ListDispatchRuns(c.Request().Context(), event.ID, queryInt(c, "limit", 20))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToDispatchRunListResponse(runs))
}

func (h *Event) resolve(c echo.Context) (*entities.Event, error) {
	return h.events.ResolveEvent(c.Request().Context(), c.Param("id"))
}
