package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

// dispatchRunRepository implements the DispatchRunRepository interface
type dispatchRunRepository struct {
	db *gorm.DB
}

// NewDispatchRunRepository creates a new dispatch audit repository
func NewDispatchRunRepository(db *gorm.DB) repositories.DispatchRunRepository {
	return &dispatchRunRepository{db: db}
}

func (r *dispatchRunRepository) Create(ctx context.Context, run *entities.DispatchRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *dispatchRunRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]entities.DispatchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []entities.DispatchRun
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// NewStore wires all Postgres repositories over one connection pool
func NewStore(db *gorm.DB) *repositories.Store {
	return &repositories.Store{
		Events:       NewEventRepository(db),
		Segments:     NewSegmentRepository(db),
		Translations: NewTranslationRepository(db),
		Languages:    NewLanguageRepository(db),
		DispatchRuns: NewDispatchRunRepository(db),
	}
}
