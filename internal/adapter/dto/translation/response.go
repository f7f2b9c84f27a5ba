package translation

import "time"

// TranslationResponse represents one stored translation row
type TranslationResponse struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	SegmentID      string    `json:"segment_id"`
	LanguageCode   string    `json:"language_code"`
	TranslatedText string    `json:"translated_text"`
	SequenceNumber int64     `json:"sequence_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// DispatchResponse is the dispatch endpoint body. Debug is omitted when
// nothing was pending.
type DispatchResponse struct {
	Translated []*TranslationResponse `json:"translated"`
	Debug      *DispatchDebugResponse `json:"debug,omitempty"`
}

// DispatchDebugResponse echoes the provider exchange for operators
type DispatchDebugResponse struct {
	Request        interface{} `json:"request"`
	Model          string      `json:"model,omitempty"`
	ModelOutputRaw string      `json:"model_output_raw,omitempty"`
	PendingCount   int         `json:"pending_count"`
	Recovered      bool        `json:"recovered"`
}
