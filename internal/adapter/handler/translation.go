package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/errors"
	translationdto "github.com/johnquangdev/caption-relay/internal/adapter/dto/translation"
	"github.com/johnquangdev/caption-relay/internal/adapter/presenter"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
	translationUsecase "github.com/johnquangdev/caption-relay/internal/usecase/translation"
)

// Translation handles the translation backfill endpoint
type Translation struct {
	events     eventUsecase.Service
	dispatcher translationUsecase.Service
	logger     *zap.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(events eventUsecase.Service, dispatcher translationUsecase.Service, logger *zap.Logger) *Translation {
	return &Translation{
		events:     events,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RunTranslations handles POST /translations/run
// @Summary      Backfill translations
// @Description  Translates every finalized segment of the event that has no stored translation for the language, in one provider call. Concurrent calls for the same language never store duplicates; the loser returns the rows already stored.
// @Tags         Translations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      translation.DispatchRequest  true  "Dispatch request"
// @Success      200      {object}  translation.DispatchResponse  "Inserted or recovered rows"
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Failure      401      {object}  common.ErrorResponse  "User not authenticated"
// @Failure      403      {object}  common.ErrorResponse  "Not the event owner"
// @Failure      500      {object}  common.ErrorResponse  "Provider not configured or persistence failed"
// @Failure      502      {object}  common.ErrorResponse  "Provider output could not be parsed"
// @Failure      503      {object}  common.ErrorResponse  "Provider unavailable"
// @Router       /translations/run [post]
func (h *Translation) RunTranslations(c echo.Context) error {
	var req translationdto.DispatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("event_id must be a valid UUID"))
	}
	lang := entities.NormalizeLanguageCode(req.LanguageCode)

	userID, ok := currentUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	ctx := c.Request().Context()
	if _, err := h.events.AuthorizeOwner(ctx, eventID, userID); err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrForbidden) {
			return HandleError(h.logger, c, errors.ErrNotEventOwner(req.EventID))
		}
		return HandleError(h.logger, c, err)
	}

	result, err := h.dispatcher.Dispatch(ctx, translationUsecase.DispatchInput{
		EventID:      eventID,
		LanguageCode: lang,
		PartialText:  req.PartialText,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.String("event_id", eventID.String()),
			zap.String("language_code", lang),
			zap.Int("translated", len(result.Translated)),
		)
	}
	// The dispatch contract body is not wrapped in the success envelope.
	return c.JSON(http.StatusOK, presenter.ToDispatchResponse(result))
}
