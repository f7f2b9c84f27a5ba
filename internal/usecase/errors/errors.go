package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Dispatch errors
var (
	ErrProviderMisconfigured = errors.New("translation provider misconfigured")
	ErrProviderUnavailable   = errors.New("translation provider unavailable")
	ErrInvalidProviderOutput = errors.New("invalid provider output")
	ErrPersistence           = errors.New("persistence error")
)

// Event errors
var (
	ErrStorageDisabled = errors.New("object storage disabled")
)
