package entities

import "github.com/google/uuid"

// StreamEventType tags the realtime envelope variants.
type StreamEventType string

const (
	StreamSegmentArrived      StreamEventType = "segment_arrived"
	StreamPartialUpdated      StreamEventType = "partial_updated"
	StreamTranslationArrived  StreamEventType = "translation_arrived"
	StreamAvailabilityChanged StreamEventType = "availability_changed"
)

// StreamEvent is one realtime notification for an event. Exactly one of the
// payload fields is set, matching Type.
type StreamEvent struct {
	Type         StreamEventType       `json:"type"`
	EventID      uuid.UUID             `json:"event_id"`
	Segment      *Segment              `json:"segment,omitempty"`
	Partial      *PartialUpdate        `json:"partial,omitempty"`
	Translation  *Translation          `json:"translation,omitempty"`
	Availability *LanguageAvailability `json:"availability,omitempty"`
}

// LanguageScope returns the language a translation envelope belongs to, or ""
// for envelopes every viewer receives.
func (e StreamEvent) LanguageScope() string {
	if e.Type == StreamTranslationArrived && e.Translation != nil {
		return e.Translation.LanguageCode
	}
	return ""
}
