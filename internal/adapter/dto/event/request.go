package event

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Languages   []string `json:"languages,omitempty" validate:"omitempty,max=20,dive,langcode"`
}

// ListEventsRequest represents query parameters for listing the caller's events
type ListEventsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// AppendSegmentRequest represents one finalized transcript unit from the transcriber
type AppendSegmentRequest struct {
	Text           string  `json:"text" validate:"required"`
	LanguageCode   *string `json:"language_code,omitempty" validate:"omitempty,langcode"`
	SequenceNumber int64   `json:"sequence_number,omitempty" validate:"omitempty,min=1"`
}

// UpdatePartialRequest represents the latest in-progress text. Empty text
// clears the slot.
type UpdatePartialRequest struct {
	Text         string  `json:"text"`
	LanguageCode *string `json:"language_code,omitempty" validate:"omitempty,langcode"`
}

// SetLanguageRequest toggles a language for viewers
type SetLanguageRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// ExportRequest represents export query parameters
type ExportRequest struct {
	Language string `query:"language"`
	Mode     string `query:"mode" validate:"omitempty,oneof=original translation both"`
}
