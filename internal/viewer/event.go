package viewer

import (
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// Event is one input to the reconciler. Stream deliveries, fetch completions
// and local selections all arrive as events on the same inbox.
type Event interface {
	isEvent()
}

// SegmentArrived is a finalized segment insert. It may be redelivered or
// arrive out of sequence order.
type SegmentArrived struct {
	Segment entities.Segment
}

// PartialUpdated replaces the in-progress text. Empty text clears it.
type PartialUpdated struct {
	Partial entities.PartialUpdate
}

// TranslationArrived is a translation row insert for some language
type TranslationArrived struct {
	Translation entities.Translation
}

// AvailabilityChanged reports one language toggled by an admin
type AvailabilityChanged struct {
	Availability entities.LanguageAvailability
}

// Loaded completes the initial (or post-reconnect) snapshot load
type Loaded struct {
	Snapshot Snapshot
}

// LoadFailed completes a snapshot load with an error
type LoadFailed struct {
	Err error
}

// TranslationsLoaded completes a translation fetch for Language
type TranslationsLoaded struct {
	Language string
	Rows     []entities.Translation
}

// TranslationsLoadFailed completes a translation fetch with an error
type TranslationsLoadFailed struct {
	Language string
	Err      error
}

// AvailabilityLoaded completes an availability re-fetch
type AvailabilityLoaded struct {
	Languages []entities.LanguageAvailability
}

// TargetLanguageChanged is the viewer selecting a language, or LanguageNone
type TargetLanguageChanged struct {
	Language string
}

// ViewModeChanged is the viewer selecting a view mode
type ViewModeChanged struct {
	Mode ViewMode
}

// StreamLost reports the live subscription dropped
type StreamLost struct {
	Err error
}

// StreamRestored reports the live subscription is back
type StreamRestored struct{}

// Retry re-issues a failed load
type Retry struct{}

func (SegmentArrived) isEvent()         {}
func (PartialUpdated) isEvent()         {}
func (TranslationArrived) isEvent()     {}
func (AvailabilityChanged) isEvent()    {}
func (Loaded) isEvent()                 {}
func (LoadFailed) isEvent()             {}
func (TranslationsLoaded) isEvent()     {}
func (TranslationsLoadFailed) isEvent() {}
func (AvailabilityLoaded) isEvent()     {}
func (TargetLanguageChanged) isEvent()  {}
func (ViewModeChanged) isEvent()        {}
func (StreamLost) isEvent()             {}
func (StreamRestored) isEvent()         {}
func (Retry) isEvent()                  {}

// Snapshot is what a full load returns
type Snapshot struct {
	Segments  []entities.Segment
	Languages []entities.LanguageAvailability
	Partial   *entities.PartialUpdate
}

// Effect is work the reducer asks the engine to perform. Completion comes
// back as an Event.
type Effect interface {
	isEffect()
}

// LoadSnapshot fetches segments, languages and the current partial
type LoadSnapshot struct{}

// FetchTranslations fetches every stored row for Language
type FetchTranslations struct {
	Language string
}

// FetchAvailability re-fetches the language availability set
type FetchAvailability struct{}

// ScopeStream narrows translation deliveries to Language ("" for none)
type ScopeStream struct {
	Language string
}

func (LoadSnapshot) isEffect()      {}
func (FetchTranslations) isEffect() {}
func (FetchAvailability) isEffect() {}
func (ScopeStream) isEffect()       {}

// FromStreamEvent converts a realtime envelope. ok is false for envelopes
// with a missing payload.
func FromStreamEvent(e entities.StreamEvent) (Event, bool) {
	switch e.Type {
	case entities.StreamSegmentArrived:
		if e.Segment != nil {
			return SegmentArrived{Segment: *e.Segment}, true
		}
	case entities.StreamPartialUpdated:
		if e.Partial != nil {
			return PartialUpdated{Partial: *e.Partial}, true
		}
	case entities.StreamTranslationArrived:
		if e.Translation != nil {
			return TranslationArrived{Translation: *e.Translation}, true
		}
	case entities.StreamAvailabilityChanged:
		if e.Availability != nil {
			return AvailabilityChanged{Availability: *e.Availability}, true
		}
	}
	return nil, false
}
