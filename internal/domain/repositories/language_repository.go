package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// LanguageRepository stores per-event language availability.
type LanguageRepository interface {
	// ListByEvent returns all configured languages of an event
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entities.LanguageAvailability, error)

	// Find returns one language row, or (nil, nil)
	Find(ctx context.Context, eventID uuid.UUID, languageCode string) (*entities.LanguageAvailability, error)

	// Upsert creates or updates the is_active flag
	Upsert(ctx context.Context, availability *entities.LanguageAvailability) error
}
