package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Segment is one finalized unit of transcript text. Segments are immutable
// once stored and ordered per event by SequenceNumber.
type Segment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_segments_event_seq,priority:1"`
	SequenceNumber int64     `json:"sequence_number" gorm:"not null;uniqueIndex:idx_segments_event_seq,priority:2"`
	Text           string    `json:"text" gorm:"type:text;not null"`
	IsFinal        bool      `json:"is_final" gorm:"not null;default:true"`
	LanguageCode   *string   `json:"language_code,omitempty" gorm:"type:varchar(20)"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Segment) TableName() string {
	return "segments"
}

// NewSegment creates a finalized segment. A zero sequence number means the
// ledger assigns the next one on append.
func NewSegment(eventID uuid.UUID, seq int64, text string, languageCode *string) *Segment {
	return &Segment{
		ID:             uuid.New(),
		EventID:        eventID,
		SequenceNumber: seq,
		Text:           text,
		IsFinal:        true,
		LanguageCode:   languageCode,
		CreatedAt:      time.Now().UTC(),
	}
}

// Before reports whether s sorts before other: by sequence number, ties broken
// by id so ordering is total.
func (s Segment) Before(other Segment) bool {
	if s.SequenceNumber != other.SequenceNumber {
		return s.SequenceNumber < other.SequenceNumber
	}
	return s.ID.String() < other.ID.String()
}

// SortSegments orders segments in place by sequence number.
func SortSegments(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Before(segments[j])
	})
}

// PartialUpdate is the ephemeral in-progress text of an event. It is never
// persisted and carries no identity.
type PartialUpdate struct {
	EventID      uuid.UUID `json:"event_id"`
	Text         string    `json:"text"`
	LanguageCode *string   `json:"language_code,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
