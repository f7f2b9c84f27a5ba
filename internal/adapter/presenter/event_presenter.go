package presenter

import (
	"github.com/google/uuid"

	eventdto "github.com/johnquangdev/caption-relay/internal/adapter/dto/event"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	exportUsecase "github.com/johnquangdev/caption-relay/internal/usecase/export"
)

// ToEventResponse converts an Event entity to EventResponse DTO
func ToEventResponse(e *entities.Event) *eventdto.EventResponse {
	if e == nil {
		return nil
	}
	return &eventdto.EventResponse{
		ID:          e.ID.String(),
		UID:         e.UID,
		Title:       e.Title,
		Description: e.Description,
		OwnerID:     e.OwnerID.String(),
		CreatedAt:   e.CreatedAt,
	}
}

// ToEventListResponse converts events to DTOs
func ToEventListResponse(events []*entities.Event) []*eventdto.EventResponse {
	out := make([]*eventdto.EventResponse, len(events))
	for i, e := range events {
		out[i] = ToEventResponse(e)
	}
	return out
}

// ToSegmentResponse converts a Segment entity to SegmentResponse DTO
func ToSegmentResponse(s *entities.Segment) *eventdto.SegmentResponse {
	if s == nil {
		return nil
	}
	return &eventdto.SegmentResponse{
		ID:             s.ID.String(),
		EventID:        s.EventID.String(),
		SequenceNumber: s.SequenceNumber,
		Text:           s.Text,
		IsFinal:        s.IsFinal,
		LanguageCode:   s.LanguageCode,
		CreatedAt:      s.CreatedAt,
	}
}

// ToSegmentListResponse keeps the input order, which is sequence order
func ToSegmentListResponse(segments []entities.Segment) []*eventdto.SegmentResponse {
	out := make([]*eventdto.SegmentResponse, len(segments))
	for i := range segments {
		out[i] = ToSegmentResponse(&segments[i])
	}
	return out
}

// ToPartialResponse returns an empty slot for a nil partial
func ToPartialResponse(eventID uuid.UUID, p *entities.PartialUpdate) *eventdto.PartialResponse {
	if p == nil {
		return &eventdto.PartialResponse{EventID: eventID.String()}
	}
	updated := p.UpdatedAt
	return &eventdto.PartialResponse{
		EventID:      eventID.String(),
		Text:         p.Text,
		LanguageCode: p.LanguageCode,
		UpdatedAt:    &updated,
	}
}

// ToLanguageResponse converts a LanguageAvailability entity
func ToLanguageResponse(l *entities.LanguageAvailability) *eventdto.LanguageResponse {
	if l == nil {
		return nil
	}
	return &eventdto.LanguageResponse{
		LanguageCode: l.LanguageCode,
		IsActive:     l.IsActive,
		UpdatedAt:    l.UpdatedAt,
	}
}

// ToLanguageListResponse converts the availability set
func ToLanguageListResponse(languages []entities.LanguageAvailability) []*eventdto.LanguageResponse {
	out := make([]*eventdto.LanguageResponse, len(languages))
	for i := range languages {
		out[i] = ToLanguageResponse(&languages[i])
	}
	return out
}

// ToDispatchRunListResponse converts audit rows
func ToDispatchRunListResponse(runs []entities.DispatchRun) []*eventdto.DispatchRunResponse {
	out := make([]*eventdto.DispatchRunResponse, len(runs))
	for i, r := range runs {
		out[i] = &eventdto.DispatchRunResponse{
			ID:             r.ID.String(),
			LanguageCode:   r.LanguageCode,
			Outcome:        string(r.Outcome),
			PendingCount:   r.PendingCount,
			InsertedCount:  r.InsertedCount,
			Request:        r.Request.Data(),
			ModelOutputRaw: r.ModelOutputRaw,
			ErrorMessage:   r.ErrorMessage,
			DurationMs:     r.DurationMs,
			CreatedAt:      r.CreatedAt,
		}
	}
	return out
}

// ToExportResponse converts an export result
func ToExportResponse(r *exportUsecase.ExportResult) *eventdto.ExportResponse {
	if r == nil {
		return nil
	}
	resp := &eventdto.ExportResponse{
		EventID:     r.EventID.String(),
		Language:    r.Language,
		Mode:        string(r.Mode),
		Lines:       r.Lines,
		ObjectName:  r.ObjectName,
		URL:         r.URL,
		GeneratedAt: r.GeneratedAt,
	}
	// archived exports are fetched through the url
	if r.URL == "" {
		resp.Text = r.Text
	}
	return resp
}
