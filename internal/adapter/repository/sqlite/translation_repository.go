package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

type translationRepository struct {
	db *sql.DB
}

const translationColumns = "id, event_id, segment_id, language_code, translated_text, sequence_number, created_at"

func (r *translationRepository) ListByLanguage(ctx context.Context, eventID uuid.UUID, languageCode string) ([]entities.Translation, error) {
	return r.query(ctx, "SELECT "+translationColumns+`
		FROM translations
		WHERE event_id = ? AND language_code = ?
		ORDER BY sequence_number ASC
	`, eventID.String(), languageCode)
}

func (r *translationRepository) ListBySegments(ctx context.Context, eventID uuid.UUID, languageCode string, segmentIDs []uuid.UUID) ([]entities.Translation, error) {
	if len(segmentIDs) == 0 {
		return []entities.Translation{}, nil
	}

	args := make([]any, 0, len(segmentIDs)+2)
	args = append(args, eventID.String(), languageCode)
	placeholders := make([]string, len(segmentIDs))
	for i, id := range segmentIDs {
		placeholders[i] = "?"
		args = append(args, id.String())
	}

	return r.query(ctx, "SELECT "+translationColumns+`
		FROM translations
		WHERE event_id = ? AND language_code = ? AND segment_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY sequence_number ASC
	`, args...)
}

// InsertBatch inserts rows in one transaction; any failure rolls back all of them.
func (r *translationRepository) InsertBatch(ctx context.Context, rows []entities.Translation) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO translations (id, event_id, segment_id, language_code, translated_text, sequence_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range rows {
		_, err := stmt.ExecContext(ctx, t.ID.String(), t.EventID.String(), t.SegmentID.String(),
			t.LanguageCode, t.TranslatedText, t.SequenceNumber, unixSeconds(t.CreatedAt))
		if isUniqueViolation(err) {
			return repositories.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("insert translation: %w", err)
		}
	}
	return tx.Commit()
}

func (r *translationRepository) query(ctx context.Context, query string, args ...any) ([]entities.Translation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	out := []entities.Translation{}
	for rows.Next() {
		var (
			t                      entities.Translation
			id, eventID, segmentID string
			createdAt              float64
		)
		if err := rows.Scan(&id, &eventID, &segmentID, &t.LanguageCode, &t.TranslatedText,
			&t.SequenceNumber, &createdAt); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan translation id: %w", err)
		}
		if t.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("scan translation event: %w", err)
		}
		if t.SegmentID, err = uuid.Parse(segmentID); err != nil {
			return nil, fmt.Errorf("scan translation segment: %w", err)
		}
		t.CreatedAt = timeFromUnix(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}
