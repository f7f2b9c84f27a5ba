package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

type languageRepository struct {
	db *sql.DB
}

func (r *languageRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entities.LanguageAvailability, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT language_code, is_active, updated_at
		FROM event_languages
		WHERE event_id = ?
		ORDER BY language_code ASC
	`, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("query languages: %w", err)
	}
	defer rows.Close()

	out := []entities.LanguageAvailability{}
	for rows.Next() {
		l := entities.LanguageAvailability{EventID: eventID}
		var updatedAt float64
		if err := rows.Scan(&l.LanguageCode, &l.IsActive, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		l.UpdatedAt = timeFromUnix(updatedAt)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *languageRepository) Find(ctx context.Context, eventID uuid.UUID, languageCode string) (*entities.LanguageAvailability, error) {
	l := entities.LanguageAvailability{EventID: eventID, LanguageCode: languageCode}
	var updatedAt float64
	err := r.db.QueryRowContext(ctx, `
		SELECT is_active, updated_at FROM event_languages
		WHERE event_id = ? AND language_code = ?
	`, eventID.String(), languageCode).Scan(&l.IsActive, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan language: %w", err)
	}
	l.UpdatedAt = timeFromUnix(updatedAt)
	return &l, nil
}

func (r *languageRepository) Upsert(ctx context.Context, availability *entities.LanguageAvailability) error {
	availability.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_languages (event_id, language_code, is_active, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (event_id, language_code)
		DO UPDATE SET is_active = excluded.is_active, updated_at = excluded.updated_at
	`, availability.EventID.String(), availability.LanguageCode, availability.IsActive,
		unixSeconds(availability.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert language: %w", err)
	}
	return nil
}
