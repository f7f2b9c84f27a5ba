package translation

// DispatchRequest represents a backfill request for one language
type DispatchRequest struct {
	EventID      string `json:"event_id" validate:"required,uuid"`
	LanguageCode string `json:"language_code" validate:"required,langcode"`
	PartialText  string `json:"partial_text,omitempty"`
}
