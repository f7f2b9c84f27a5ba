package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
)

// EventService handles event business logic
type EventService struct {
	store     *repositories.Store
	partials  repositories.PartialStore
	publisher Publisher
	logger    *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(
	store *repositories.Store,
	partials repositories.PartialStore,
	publisher Publisher,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		store:     store,
		partials:  partials,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEvent creates a new event and activates its initial languages
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*entities.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, entities.ErrInvalidEventTitle)
	}
	if input.OwnerID == uuid.Nil {
		return nil, usecaseErrors.ErrUnauthorized
	}

	languages := make([]string, 0, len(input.Languages))
	for _, code := range input.Languages {
		code = entities.NormalizeLanguageCode(code)
		if !entities.IsValidLanguageCode(code) || code == entities.LanguageNone {
			return nil, fmt.Errorf("%w: %v %q", usecaseErrors.ErrInvalidInput, entities.ErrInvalidLanguageCode, code)
		}
		languages = append(languages, code)
	}

	event := entities.NewEvent(input.OwnerID, input.Title, input.Description)
	if err := s.store.Events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	for _, code := range languages {
		availability := &entities.LanguageAvailability{
			EventID:      event.ID,
			LanguageCode: code,
			IsActive:     true,
			UpdatedAt:    time.Now().UTC(),
		}
		if err := s.store.Languages.Upsert(ctx, availability); err != nil {
			return nil, fmt.Errorf("failed to activate language %s: %w", code, err)
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Event created",
			zap.String("event_id", event.ID.String()),
			zap.String("uid", event.UID),
			zap.Strings("languages", languages),
		)
	}
	return event, nil
}

// GetEvent retrieves an event by id
func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*entities.Event, error) {
	event, err := s.store.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrNotFound, entities.ErrEventNotFound)
	}
	return event, nil
}

// ResolveEvent looks the reference up as an id first, then as a uid
func (s *EventService) ResolveEvent(ctx context.Context, ref string) (*entities.Event, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.GetEvent(ctx, id)
	}

	event, err := s.store.Events.FindByUID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrNotFound, entities.ErrEventNotFound)
	}
	return event, nil
}

// ListOwnedEvents lists the caller's events
func (s *EventService) ListOwnedEvents(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	events, err := s.store.Events.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// AuthorizeOwner checks the caller owns the event
func (s *EventService) AuthorizeOwner(ctx context.Context, eventID, userID uuid.UUID) (*entities.Event, error) {
	if userID == uuid.Nil {
		return nil, usecaseErrors.ErrUnauthorized
	}
	event, err := s.store.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !event.IsOwnedBy(userID) {
		return nil, usecaseErrors.ErrForbidden
	}
	return event, nil
}

// ListSegments returns the finalized transcript
func (s *EventService) ListSegments(ctx context.Context, eventID uuid.UUID) ([]entities.Segment, error) {
	segments, err := s.store.Segments.ListFinal(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return segments, nil
}

// ListTranslations returns the rows of one language. Rows stay readable
// after a language is disabled.
func (s *EventService) ListTranslations(ctx context.Context, eventID uuid.UUID, languageCode string) ([]entities.Translation, error) {
	code, err := normalizeLanguage(languageCode)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Translations.ListByLanguage(ctx, eventID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list translations: %w", err)
	}
	return rows, nil
}

// ListLanguages returns the availability set
func (s *EventService) ListLanguages(ctx context.Context, eventID uuid.UUID) ([]entities.LanguageAvailability, error) {
	languages, err := s.store.Languages.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// SetLanguage upserts availability and publishes availability_changed
func (s *EventService) SetLanguage(ctx context.Context, eventID uuid.UUID, languageCode string, active bool) (*entities.LanguageAvailability, error) {
	code, err := normalizeLanguage(languageCode)
	if err != nil {
		return nil, err
	}

	availability := &entities.LanguageAvailability{
		EventID:      eventID,
		LanguageCode: code,
		IsActive:     active,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.store.Languages.Upsert(ctx, availability); err != nil {
		return nil, fmt.Errorf("failed to update language: %w", err)
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, entities.StreamEvent{
			Type:         entities.StreamAvailabilityChanged,
			EventID:      eventID,
			Availability: availability,
		})
		if err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to publish availability change",
				zap.String("event_id", eventID.String()),
				zap.String("language_code", code),
				zap.Error(err),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("🔄 Language availability changed",
			zap.String("event_id", eventID.String()),
			zap.String("language_code", code),
			zap.Bool("is_active", active),
		)
	}
	return availability, nil
}

// GetPartial returns the current in-progress text
func (s *EventService) GetPartial(ctx context.Context, eventID uuid.UUID) (*entities.PartialUpdate, error) {
	partial, err := s.partials.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partial: %w", err)
	}
	return partial, nil
}

// ListDispatchRuns returns the latest audit rows
func (s *EventService) ListDispatchRuns(ctx context.Context, eventID uuid.UUID, limit int) ([]entities.DispatchRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.store.DispatchRuns.ListByEvent(ctx, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatch runs: %w", err)
	}
	return runs, nil
}

func normalizeLanguage(code string) (string, error) {
	code = entities.NormalizeLanguageCode(code)
	if !entities.IsValidLanguageCode(code) || code == entities.LanguageNone {
		return "", fmt.Errorf("%w: %v %q", usecaseErrors.ErrInvalidInput, entities.ErrInvalidLanguageCode, code)
	}
	return code, nil
}
