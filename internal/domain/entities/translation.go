package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Translation is the translated text of one Segment in one language. At most
// one row exists per (event, segment, language); the unique index enforces it.
type Translation struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_translations_segment_lang,priority:1"`
	SegmentID      uuid.UUID `json:"segment_id" gorm:"type:uuid;not null;uniqueIndex:idx_translations_segment_lang,priority:2"`
	LanguageCode   string    `json:"language_code" gorm:"type:varchar(20);not null;uniqueIndex:idx_translations_segment_lang,priority:3"`
	TranslatedText string    `json:"translated_text" gorm:"type:text;not null"`
	SequenceNumber int64     `json:"sequence_number" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Translation) TableName() string {
	return "translations"
}

// NewTranslation builds a row for segment. The sequence number always comes
// from the segment itself.
func NewTranslation(segment Segment, languageCode, text string) Translation {
	return Translation{
		ID:             uuid.New(),
		EventID:        segment.EventID,
		SegmentID:      segment.ID,
		LanguageCode:   languageCode,
		TranslatedText: text,
		SequenceNumber: segment.SequenceNumber,
		CreatedAt:      time.Now().UTC(),
	}
}

// SortTranslations orders rows by sequence number, then segment id.
func SortTranslations(rows []Translation) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SequenceNumber != rows[j].SequenceNumber {
			return rows[i].SequenceNumber < rows[j].SequenceNumber
		}
		return rows[i].SegmentID.String() < rows[j].SegmentID.String()
	})
}
