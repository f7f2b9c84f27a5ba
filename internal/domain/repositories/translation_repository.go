package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// TranslationRepository is the Translation Store: insert-once per
// (event, segment, language).
type TranslationRepository interface {
	// ListByLanguage returns the event's rows for language ordered by sequence number
	ListByLanguage(ctx context.Context, eventID uuid.UUID, languageCode string) ([]entities.Translation, error)

	// ListBySegments returns rows for the given segment ids ordered by sequence number
	ListBySegments(ctx context.Context, eventID uuid.UUID, languageCode string, segmentIDs []uuid.UUID) ([]entities.Translation, error)

	// InsertBatch inserts all rows or none. Returns ErrDuplicate when any row
	// violates the (event_id, segment_id, language_code) constraint.
	InsertBatch(ctx context.Context, rows []entities.Translation) error
}
