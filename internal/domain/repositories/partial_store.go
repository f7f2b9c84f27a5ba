package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// PartialStore is the Partial Channel slot: at most one in-progress text per
// event, overwritten by every update and never persisted.
type PartialStore interface {
	// Set replaces the event's slot
	Set(ctx context.Context, update entities.PartialUpdate) error

	// Get returns the current slot, or (nil, nil) when empty or expired
	Get(ctx context.Context, eventID uuid.UUID) (*entities.PartialUpdate, error)

	// Clear empties the slot
	Clear(ctx context.Context, eventID uuid.UUID) error
}
