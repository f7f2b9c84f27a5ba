package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

type eventRepository struct {
	db *sql.DB
}

const eventColumns = "id, uid, title, description, owner_id, created_at"

func (r *eventRepository) Create(ctx context.Context, event *entities.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, uid, title, description, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID.String(), event.UID, event.Title, nullString(event.Description),
		event.OwnerID.String(), unixSeconds(event.CreatedAt))
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id.String())
	return scanEvent(row)
}

func (r *eventRepository) FindByUID(ctx context.Context, uid string) (*entities.Event, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE uid = ?", uid)
	return scanEvent(row)
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Event, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+eventColumns+`
		FROM events
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, ownerID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*entities.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*entities.Event, error) {
	var (
		e           entities.Event
		id, ownerID string
		description sql.NullString
		createdAt   float64
	)
	if err := s.Scan(&id, &e.UID, &e.Title, &description, &ownerID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("scan event id: %w", err)
	}
	if e.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("scan event owner: %w", err)
	}
	e.Description = stringPtr(description)
	e.CreatedAt = timeFromUnix(createdAt)
	return &e, nil
}
