package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	"github.com/johnquangdev/caption-relay/pkg/metrics"
)

const maxSequenceRetries = 5

// IngestService appends to the Segment Ledger and drives the Partial Channel
type IngestService struct {
	segments  repositories.SegmentRepository
	partials  repositories.PartialStore
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	// newBackOff is replaced in tests to avoid sleeping
	newBackOff func() backoff.BackOff
}

// NewIngestService creates a new ingest service
func NewIngestService(
	segments repositories.SegmentRepository,
	partials repositories.PartialStore,
	publisher Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		segments:   segments,
		partials:   partials,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		newBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return b
}

// AppendSegment stores a finalized segment. Concurrent auto-numbered appends
// race on (event_id, sequence_number); the loser retries with the next number.
// An explicit sequence number that is already taken returns the stored row.
func (s *IngestService) AppendSegment(ctx context.Context, input AppendSegmentInput) (*entities.Segment, bool, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, false, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, entities.ErrEmptySegmentText)
	}
	if input.SequenceNumber < 0 {
		return nil, false, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, entities.ErrInvalidSequence)
	}
	lang, err := optionalLanguage(input.LanguageCode)
	if err != nil {
		return nil, false, err
	}

	if input.SequenceNumber > 0 {
		return s.appendExplicit(ctx, input, text, lang)
	}

	var segment *entities.Segment
	operation := func() error {
		segment = entities.NewSegment(input.EventID, 0, text, lang)
		err := s.segments.Append(ctx, segment)
		if errors.Is(err, repositories.ErrDuplicate) {
			s.metrics.RecordSequenceRetry()
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), maxSequenceRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to append segment",
				zap.String("event_id", input.EventID.String()),
				zap.Error(err),
			)
		}
		return nil, false, fmt.Errorf("%w: append segment: %v", usecaseErrors.ErrPersistence, err)
	}

	s.finalized(ctx, segment)
	return segment, true, nil
}

func (s *IngestService) appendExplicit(ctx context.Context, input AppendSegmentInput, text string, lang *string) (*entities.Segment, bool, error) {
	segment := entities.NewSegment(input.EventID, input.SequenceNumber, text, lang)
	err := s.segments.Append(ctx, segment)
	if err == nil {
		s.finalized(ctx, segment)
		return segment, true, nil
	}
	if !errors.Is(err, repositories.ErrDuplicate) {
		return nil, false, fmt.Errorf("%w: append segment: %v", usecaseErrors.ErrPersistence, err)
	}

	existing, findErr := s.segments.FindBySequence(ctx, input.EventID, input.SequenceNumber)
	if findErr != nil {
		return nil, false, fmt.Errorf("%w: find segment: %v", usecaseErrors.ErrPersistence, findErr)
	}
	if existing == nil {
		return nil, false, fmt.Errorf("%w: sequence %d conflicted but is missing", usecaseErrors.ErrPersistence, input.SequenceNumber)
	}
	if existing.Text != text && s.logger != nil {
		s.logger.Warn("⚠️ Redelivered segment differs from stored text",
			zap.String("event_id", input.EventID.String()),
			zap.Int64("sequence_number", input.SequenceNumber),
		)
	}
	return existing, false, nil
}

// finalized clears the partial the segment supersedes and notifies viewers
func (s *IngestService) finalized(ctx context.Context, segment *entities.Segment) {
	s.metrics.RecordSegmentIngested()

	if err := s.partials.Clear(ctx, segment.EventID); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to clear partial",
			zap.String("event_id", segment.EventID.String()),
			zap.Error(err),
		)
	}
	s.publish(ctx, entities.StreamEvent{
		Type:    entities.StreamSegmentArrived,
		EventID: segment.EventID,
		Segment: segment,
	})
}

// UpdatePartial replaces the slot; blank text empties it. Staleness is
// cosmetic, so last write wins.
func (s *IngestService) UpdatePartial(ctx context.Context, input UpdatePartialInput) (*entities.PartialUpdate, error) {
	lang, err := optionalLanguage(input.LanguageCode)
	if err != nil {
		return nil, err
	}

	update := entities.PartialUpdate{
		EventID:      input.EventID,
		Text:         input.Text,
		LanguageCode: lang,
		UpdatedAt:    time.Now().UTC(),
	}
	if strings.TrimSpace(input.Text) == "" {
		err = s.partials.Clear(ctx, input.EventID)
	} else {
		err = s.partials.Set(ctx, update)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store partial: %w", err)
	}
	s.metrics.RecordPartialIngested()

	s.publish(ctx, entities.StreamEvent{
		Type:    entities.StreamPartialUpdated,
		EventID: input.EventID,
		Partial: &update,
	})
	return &update, nil
}

func (s *IngestService) publish(ctx context.Context, event entities.StreamEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to publish stream event",
			zap.String("event_id", event.EventID.String()),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func optionalLanguage(code *string) (*string, error) {
	if code == nil || strings.TrimSpace(*code) == "" {
		return nil, nil
	}
	normalized := entities.NormalizeLanguageCode(*code)
	if !entities.IsValidLanguageCode(normalized) {
		return nil, fmt.Errorf("%w: %v %q", usecaseErrors.ErrInvalidInput, entities.ErrInvalidLanguageCode, *code)
	}
	return &normalized, nil
}
