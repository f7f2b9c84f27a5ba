package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// Service defines the transcriber-facing write path
type Service interface {
	// AppendSegment stores a finalized segment, clears the partial slot and
	// notifies viewers. Created is false when an identical sequence number
	// was already stored.
	AppendSegment(ctx context.Context, input AppendSegmentInput) (segment *entities.Segment, created bool, err error)

	// UpdatePartial replaces the event's in-progress text and notifies viewers
	UpdatePartial(ctx context.Context, input UpdatePartialInput) (*entities.PartialUpdate, error)
}

// AppendSegmentInput represents one finalized transcript unit. A zero
// SequenceNumber lets the ledger assign the next one.
type AppendSegmentInput struct {
	EventID        uuid.UUID
	Text           string
	LanguageCode   *string
	SequenceNumber int64
}

// UpdatePartialInput represents the latest in-progress text
type UpdatePartialInput struct {
	EventID      uuid.UUID
	Text         string
	LanguageCode *string
}

// Publisher fans out realtime notifications
type Publisher interface {
	Publish(ctx context.Context, event entities.StreamEvent) error
}

// Ensure IngestService implements Service interface
var _ Service = (*IngestService)(nil)
