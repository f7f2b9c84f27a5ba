package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

// translationRepository implements the TranslationRepository interface
type translationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository creates a new translation store backed by Postgres
func NewTranslationRepository(db *gorm.DB) repositories.TranslationRepository {
	return &translationRepository{db: db}
}

// ListByLanguage returns all rows of the event for languageCode
func (r *translationRepository) ListByLanguage(ctx context.Context, eventID uuid.UUID, languageCode string) ([]entities.Translation, error) {
	var rows []entities.Translation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND language_code = ?", eventID, languageCode).
		Order("sequence_number ASC").
		Find(&rows).Error
	return rows, err
}

// ListBySegments returns the rows for segmentIDs
func (r *translationRepository) ListBySegments(ctx context.Context, eventID uuid.UUID, languageCode string, segmentIDs []uuid.UUID) ([]entities.Translation, error) {
	if len(segmentIDs) == 0 {
		return []entities.Translation{}, nil
	}
	var rows []entities.Translation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND language_code = ?", eventID, languageCode).
		Where("segment_id IN ?", segmentIDs).
		Order("sequence_number ASC").
		Find(&rows).Error
	return rows, err
}

// InsertBatch writes rows as a single INSERT statement, so a conflict on any
// row leaves none of them behind.
func (r *translationRepository) InsertBatch(ctx context.Context, rows []entities.Translation) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&rows).Error
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	return err
}
