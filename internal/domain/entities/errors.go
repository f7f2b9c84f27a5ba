package entities

import "errors"

// Domain errors
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrSegmentNotFound     = errors.New("segment not found")
	ErrInvalidLanguageCode = errors.New("invalid language code")
	ErrEmptySegmentText    = errors.New("segment text is empty")
	ErrInvalidSequence     = errors.New("sequence number must be positive")
	ErrInvalidEventTitle   = errors.New("event title is required")

	// Generic errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)
