package middleware

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/caption-relay/errors"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
)

// Echo context keys shared with the handlers
const (
	UserIDContextKey = "user_id"
	EventContextKey  = "event"
)

// RequireEventOwner only lets the event's owner through. The :id param may
// be the event id or its uid. A missing event is reported as forbidden so
// callers cannot discover ids they do not own. On success the event is
// stored under EventContextKey.
func RequireEventOwner(events eventUsecase.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(UserIDContextKey).(uuid.UUID)
			if !ok || userID == uuid.Nil {
				return reject(c, errors.ErrUnauthenticated())
			}

			ref := c.Param("id")
			event, err := events.ResolveEvent(c.Request().Context(), ref)
			if err != nil {
				if stdErrors.Is(err, usecaseErrors.ErrNotFound) || stdErrors.Is(err, usecaseErrors.ErrInvalidInput) {
					return reject(c, errors.ErrNotEventOwner(ref))
				}
				return reject(c, errors.ErrInternal(err))
			}

			event, err = events.AuthorizeOwner(c.Request().Context(), event.ID, userID)
			if err != nil {
				switch {
				case stdErrors.Is(err, usecaseErrors.ErrForbidden):
					return reject(c, errors.ErrNotEventOwner(ref))
				case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
					return reject(c, errors.ErrUnauthenticated())
				default:
					return reject(c, errors.ErrInternal(err))
				}
			}

			c.Set(EventContextKey, event)
			return next(c)
		}
	}
}

func reject(c echo.Context, appErr errors.AppError) error {
	body := map[string]interface{}{
		"code":    int(appErr.Code),
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	status := appErr.HTTPCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, body)
}
