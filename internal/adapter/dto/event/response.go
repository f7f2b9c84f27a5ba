package event

import "time"

// EventResponse represents an event in API responses
type EventResponse struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SegmentResponse represents a finalized segment
type SegmentResponse struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	SequenceNumber int64     `json:"sequence_number"`
	Text           string    `json:"text"`
	IsFinal        bool      `json:"is_final"`
	LanguageCode   *string   `json:"language_code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AppendSegmentResponse reports whether the segment was newly stored
type AppendSegmentResponse struct {
	Segment *SegmentResponse `json:"segment"`
	Created bool             `json:"created"`
}

// PartialResponse represents the current in-progress text
type PartialResponse struct {
	EventID      string     `json:"event_id"`
	Text         string     `json:"text"`
	LanguageCode *string    `json:"language_code,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// LanguageResponse represents one language availability row
type LanguageResponse struct {
	LanguageCode string    `json:"language_code"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DispatchRunResponse represents one dispatch audit row
type DispatchRunResponse struct {
	ID             string      `json:"id"`
	LanguageCode   string      `json:"language_code"`
	Outcome        string      `json:"outcome"`
	PendingCount   int         `json:"pending_count"`
	InsertedCount  int         `json:"inserted_count"`
	Request        interface{} `json:"request"`
	ModelOutputRaw string      `json:"model_output_raw,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	DurationMs     int64       `json:"duration_ms"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ExportResponse represents a rendered transcript
type ExportResponse struct {
	EventID     string    `json:"event_id"`
	Language    string    `json:"language"`
	Mode        string    `json:"mode"`
	Lines       int       `json:"lines"`
	Text        string    `json:"text,omitempty"`
	ObjectName  string    `json:"object_name,omitempty"`
	URL         string    `json:"url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
