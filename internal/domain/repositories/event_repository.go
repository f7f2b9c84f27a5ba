package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// EventRepository defines the interface for event data access.
// Find methods return (nil, nil) when the event does not exist.
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *entities.Event) error

	// FindByID finds an event by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)

	// FindByUID finds an event by its public uid
	FindByUID(ctx context.Context, uid string) (*entities.Event, error)

	// ListByOwner returns the owner's events, newest first
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Event, error)
}
