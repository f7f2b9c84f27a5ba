package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is a live captioning session owned by a single broadcaster.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UID         string    `json:"uid" gorm:"type:varchar(64);uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// NewEvent creates a new event. The public uid is derived from the id so it is
// stable and URL safe.
func NewEvent(ownerID uuid.UUID, title string, description *string) *Event {
	id := uuid.New()
	return &Event{
		ID:          id,
		UID:         strings.ReplaceAll(id.String(), "-", "")[:12],
		Title:       strings.TrimSpace(title),
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
}

// IsOwnedBy reports whether userID owns the event.
func (e *Event) IsOwnedBy(userID uuid.UUID) bool {
	return e != nil && e.OwnerID == userID
}
