package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

// segmentRepository implements the SegmentRepository interface
type segmentRepository struct {
	db *gorm.DB
}

// NewSegmentRepository creates a new segment ledger backed by Postgres
func NewSegmentRepository(db *gorm.DB) repositories.SegmentRepository {
	return &segmentRepository{db: db}
}

// ListFinal returns finalized segments ordered by sequence number
func (r *segmentRepository) ListFinal(ctx context.Context, eventID uuid.UUID) ([]entities.Segment, error) {
	var segments []entities.Segment
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND is_final = ?", eventID, true).
		Order("sequence_number ASC").
		Order("id ASC").
		Find(&segments).Error
	return segments, err
}

// Append inserts the segment, assigning max+1 when no sequence number is set.
// Two concurrent appends may compute the same number; the loser gets
// ErrDuplicate and is expected to retry.
func (r *segmentRepository) Append(ctx context.Context, segment *entities.Segment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if segment.SequenceNumber == 0 {
			var next int64
			if err := tx.Model(&entities.Segment{}).
				Select("COALESCE(MAX(sequence_number), 0) + 1").
				Where("event_id = ?", segment.EventID).
				Scan(&next).Error; err != nil {
				return err
			}
			segment.SequenceNumber = next
		}
		return tx.Create(segment).Error
	})
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindBySequence retrieves the segment at seq
func (r *segmentRepository) FindBySequence(ctx context.Context, eventID uuid.UUID, seq int64) (*entities.Segment, error) {
	var segment entities.Segment
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND sequence_number = ?", eventID, seq).
		First(&segment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}
