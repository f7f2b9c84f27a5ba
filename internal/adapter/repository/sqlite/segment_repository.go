package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

type segmentRepository struct {
	db *sql.DB
}

const segmentColumns = "id, event_id, sequence_number, text, is_final, language_code, created_at"

func (r *segmentRepository) ListFinal(ctx context.Context, eventID uuid.UUID) ([]entities.Segment, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+segmentColumns+`
		FROM segments
		WHERE event_id = ? AND is_final = 1
		ORDER BY sequence_number ASC, id ASC
	`, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	segments := []entities.Segment{}
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, *seg)
	}
	return segments, rows.Err()
}

func (r *segmentRepository) Append(ctx context.Context, segment *entities.Segment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if segment.SequenceNumber == 0 {
		var next int64
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM segments WHERE event_id = ?",
			segment.EventID.String(),
		).Scan(&next); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		segment.SequenceNumber = next
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO segments (id, event_id, sequence_number, text, is_final, language_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, segment.ID.String(), segment.EventID.String(), segment.SequenceNumber, segment.Text,
		segment.IsFinal, nullString(segment.LanguageCode), unixSeconds(segment.CreatedAt))
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert segment: %w", err)
	}
	return tx.Commit()
}

func (r *segmentRepository) FindBySequence(ctx context.Context, eventID uuid.UUID, seq int64) (*entities.Segment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+segmentColumns+
		" FROM segments WHERE event_id = ? AND sequence_number = ?", eventID.String(), seq)
	seg, err := scanSegment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return seg, err
}

func scanSegment(s scanner) (*entities.Segment, error) {
	var (
		seg         entities.Segment
		id, eventID string
		language    sql.NullString
		createdAt   float64
	)
	if err := s.Scan(&id, &eventID, &seg.SequenceNumber, &seg.Text, &seg.IsFinal, &language, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan segment: %w", err)
	}
	var err error
	if seg.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("scan segment id: %w", err)
	}
	if seg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("scan segment event: %w", err)
	}
	seg.LanguageCode = stringPtr(language)
	seg.CreatedAt = timeFromUnix(createdAt)
	return &seg, nil
}
