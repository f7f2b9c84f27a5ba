package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

// languageRepository implements the LanguageRepository interface
type languageRepository struct {
	db *gorm.DB
}

// NewLanguageRepository creates a new language availability repository
func NewLanguageRepository(db *gorm.DB) repositories.LanguageRepository {
	return &languageRepository{db: db}
}

func (r *languageRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entities.LanguageAvailability, error) {
	var rows []entities.LanguageAvailability
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("language_code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *languageRepository) Find(ctx context.Context, eventID uuid.UUID, languageCode string) (*entities.LanguageAvailability, error) {
	var row entities.LanguageAvailability
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND language_code = ?", eventID, languageCode).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert creates the row or flips is_active on an existing one
func (r *languageRepository) Upsert(ctx context.Context, availability *entities.LanguageAvailability) error {
	availability.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "language_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
		}).
		Create(availability).Error
}
