package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DispatchOutcome is the terminal state of one dispatch.
type DispatchOutcome string

const (
	DispatchOutcomeInserted        DispatchOutcome = "inserted"
	DispatchOutcomeRecovered       DispatchOutcome = "conflict_recovered"
	DispatchOutcomeProviderError   DispatchOutcome = "provider_error"
	DispatchOutcomeInvalidOutput   DispatchOutcome = "invalid_output"
	DispatchOutcomePersistenceFail DispatchOutcome = "persistence_error"
)

// ProviderItem is one {id, text} entry sent to the translation provider.
type ProviderItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ProviderRequest is the batch sent to the translation provider. PartialText
// is context only and is never translated.
type ProviderRequest struct {
	TargetLanguage string         `json:"target_language"`
	Items          []ProviderItem `json:"items"`
	PartialText    string         `json:"partial_text"`
}

// DispatchRun is the audit record of one dispatch that reached the provider.
type DispatchRun struct {
	ID             uuid.UUID                           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID        uuid.UUID                           `json:"event_id" gorm:"type:uuid;not null;index"`
	LanguageCode   string                              `json:"language_code" gorm:"type:varchar(20);not null"`
	Outcome        DispatchOutcome                     `json:"outcome" gorm:"type:varchar(32);not null"`
	PendingCount   int                                 `json:"pending_count"`
	InsertedCount  int                                 `json:"inserted_count"`
	Request        datatypes.JSONType[ProviderRequest] `json:"request" gorm:"type:jsonb"`
	ModelOutputRaw string                              `json:"model_output_raw,omitempty" gorm:"type:text"`
	ErrorMessage   string                              `json:"error_message,omitempty" gorm:"type:text"`
	DurationMs     int64                               `json:"duration_ms"`
	CreatedAt      time.Time                           `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (DispatchRun) TableName() string {
	return "dispatch_runs"
}
