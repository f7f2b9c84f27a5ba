package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/errors"
	"github.com/johnquangdev/caption-relay/internal/adapter/dto/common"
	"github.com/johnquangdev/caption-relay/internal/adapter/presenter"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	translationUsecase "github.com/johnquangdev/caption-relay/internal/usecase/translation"
	"github.com/johnquangdev/caption-relay/pkg/middleware"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized 200 response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response using provided logger
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger.
// Dispatch failures carry their debug block in the body.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := ToAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", appErr.HTTPCode),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	body := common.ErrorResponse{
		Code:    int(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Raw != nil {
		body.Info = appErr.Raw.Error()
	}

	var dispatchErr *translationUsecase.DispatchError
	if stdErrors.As(err, &dispatchErr) && dispatchErr.Debug != nil {
		body.Debug = presenter.ToDispatchDebugResponse(dispatchErr.Debug)
	}

	return c.JSON(appErr.HTTPCode, body)
}

// ToAppError maps use case errors onto the HTTP error catalogue
func ToAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var mapped errors.AppError
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		mapped = errors.ErrInvalidArgument("Invalid input")
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		mapped = errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		mapped = errors.ErrForbidden("Forbidden")
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		mapped = errors.ErrNotFound("Resource")
	case stdErrors.Is(err, usecaseErrors.ErrProviderMisconfigured):
		mapped = errors.ErrProviderMisconfigured(causeOf(err))
	case stdErrors.Is(err, usecaseErrors.ErrProviderUnavailable):
		return errors.ErrProviderUnavailable("translation", err)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidProviderOutput):
		return errors.ErrInvalidProviderOutput(err)
	case stdErrors.Is(err, usecaseErrors.ErrPersistence):
		return errors.ErrDBQueryFailed("persistence", err)
	case stdErrors.Is(err, usecaseErrors.ErrStorageDisabled):
		mapped = errors.ErrStorageFailed("object storage disabled", err)
		mapped.HTTPCode = http.StatusNotImplemented
	case stdErrors.Is(err, repositories.ErrDuplicate):
		mapped = errors.ErrAlreadyExists("Resource")
	default:
		return errors.ErrInternal(err)
	}

	mapped.Raw = err
	return mapped
}

// causeOf returns the wrapped cause of a dispatch error, or err itself
func causeOf(err error) string {
	var dispatchErr *translationUsecase.DispatchError
	if stdErrors.As(err, &dispatchErr) && dispatchErr.Err != nil {
		return dispatchErr.Err.Error()
	}
	return err.Error()
}

// bindAndValidate binds the request and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload().WithDetail("reason", err.Error())
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument("Validation failed").WithDetail("reason", err.Error())
	}
	return nil
}

// currentUserID returns the user set by the auth middleware
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(middleware.UserIDContextKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// ownedEvent returns the event resolved by RequireEventOwner
func ownedEvent(c echo.Context) (*entities.Event, error) {
	event, ok := c.Get(middleware.EventContextKey).(*entities.Event)
	if !ok || event == nil {
		return nil, errors.ErrForbidden("Forbidden")
	}
	return event, nil
}

// queryInt reads an integer query parameter with a default value
func queryInt(c echo.Context, key string, defaultValue int) int {
	raw := c.QueryParam(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}
