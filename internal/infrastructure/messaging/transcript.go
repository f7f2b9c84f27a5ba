package messaging

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	EventTypePartial = "interaction.transcript.partial"
	EventTypeFinal   = "interaction.transcript.final"
)

// TranscriptMessage is the transcriber's partial or final result. The
// interaction id is the caption event id or uid.
type TranscriptMessage struct {
	EventType     string  `json:"eventType"`
	InteractionID string  `json:"interactionId"`
	TenantID      string  `json:"tenantId"`
	Timestamp     int64   `json:"timestamp"`
	SegmentID     string  `json:"segmentId"`
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence,omitempty"`
	AudioOffsetMs int64   `json:"audioOffsetMs,omitempty"`
	LanguageCode  string  `json:"languageCode,omitempty"`
}

// DecodeTranscript parses a message value
func DecodeTranscript(value []byte) (*TranscriptMessage, error) {
	var msg TranscriptMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if strings.TrimSpace(msg.InteractionID) == "" {
		return nil, fmt.Errorf("decode transcript: missing interactionId")
	}
	return &msg, nil
}

// IsFinal reports whether the message finalizes a segment. The event type
// wins; the topic decides when it is empty.
func (m *TranscriptMessage) IsFinal(topic, finalTopic string) bool {
	switch m.EventType {
	case EventTypeFinal:
		return true
	case EventTypePartial:
		return false
	}
	return topic == finalTopic
}

// SegmentSequence extracts n from segment ids shaped "<interaction>-seg-<n>".
// Other shapes return 0 so the ledger assigns the next number.
func SegmentSequence(segmentID string) int64 {
	idx := strings.LastIndex(segmentID, "-seg-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.ParseInt(segmentID[idx+len("-seg-"):], 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
