package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// SegmentRepository is the Segment Ledger: append-only, ordered per event.
type SegmentRepository interface {
	// ListFinal returns every finalized segment of the event ordered by sequence number
	ListFinal(ctx context.Context, eventID uuid.UUID) ([]entities.Segment, error)

	// Append stores a segment. A zero SequenceNumber is replaced by max+1.
	// Returns ErrDuplicate when (event_id, sequence_number) is taken.
	Append(ctx context.Context, segment *entities.Segment) error

	// FindBySequence returns the segment at seq, or (nil, nil)
	FindBySequence(ctx context.Context, eventID uuid.UUID, seq int64) (*entities.Segment, error)
}
