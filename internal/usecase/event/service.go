package event

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// Service defines the interface for event use case
type Service interface {
	// CreateEvent creates a new event owned by the caller
	CreateEvent(ctx context.Context, input CreateEventInput) (*entities.Event, error)

	// GetEvent retrieves an event by id
	GetEvent(ctx context.Context, eventID uuid.UUID) (*entities.Event, error)

	// ResolveEvent accepts an event id or its public uid
	ResolveEvent(ctx context.Context, ref string) (*entities.Event, error)

	// ListOwnedEvents lists the caller's events, newest first
	ListOwnedEvents(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Event, error)

	// AuthorizeOwner returns the event when userID owns it. A missing event
	// is reported as forbidden too.
	AuthorizeOwner(ctx context.Context, eventID, userID uuid.UUID) (*entities.Event, error)

	// ListSegments returns the finalized transcript in sequence order
	ListSegments(ctx context.Context, eventID uuid.UUID) ([]entities.Segment, error)

	// ListTranslations returns the stored rows for one language in sequence order
	ListTranslations(ctx context.Context, eventID uuid.UUID, languageCode string) ([]entities.Translation, error)

	// ListLanguages returns the language availability set
	ListLanguages(ctx context.Context, eventID uuid.UUID) ([]entities.LanguageAvailability, error)

	// SetLanguage activates or deactivates a language and notifies viewers
	SetLanguage(ctx context.Context, eventID uuid.UUID, languageCode string, active bool) (*entities.LanguageAvailability, error)

	// GetPartial returns the current in-progress text, or nil
	GetPartial(ctx context.Context, eventID uuid.UUID) (*entities.PartialUpdate, error)

	// ListDispatchRuns returns the latest dispatch audit rows
	ListDispatchRuns(ctx context.Context, eventID uuid.UUID, limit int) ([]entities.DispatchRun, error)
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description *string
	Languages   []string
}

// Publisher fans out realtime notifications
type Publisher interface {
	Publish(ctx context.Context, event entities.StreamEvent) error
}

// Ensure EventService implements Service interface
var _ Service = (*EventService)(nil)
