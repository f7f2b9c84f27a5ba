package entities

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LanguageNone is the viewer selection meaning "no translation".
const LanguageNone = "none"

var languageCodePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})*$`)

// NormalizeLanguageCode lower-cases and trims a BCP 47 style tag and converts
// underscores, so "pt_BR" and "pt-br" address the same rows.
func NormalizeLanguageCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}

// IsValidLanguageCode reports whether code is an ISO-style language tag.
func IsValidLanguageCode(code string) bool {
	return languageCodePattern.MatchString(NormalizeLanguageCode(code))
}

// LanguageAvailability governs whether viewers may request a language.
type LanguageAvailability struct {
	EventID      uuid.UUID `json:"event_id" gorm:"type:uuid;primaryKey"`
	LanguageCode string    `json:"language_code" gorm:"type:varchar(20);primaryKey"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (LanguageAvailability) TableName() string {
	return "event_languages"
}
