package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// DispatchRunRepository keeps the audit trail of dispatches.
type DispatchRunRepository interface {
	Create(ctx context.Context, run *entities.DispatchRun) error
	ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]entities.DispatchRun, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Events       EventRepository
	Segments     SegmentRepository
	Translations TranslationRepository
	Languages    LanguageRepository
	DispatchRuns DispatchRunRepository
}
