package viewer

import (
	"strings"

	"github.com/google/uuid"
)

// LineKind tags a rendered line
type LineKind string

const (
	LineOriginal    LineKind = "original"
	LineTranslation LineKind = "translation"
	LinePending     LineKind = "pending"
	LinePartial     LineKind = "partial"
)

// PendingText marks a segment whose translation has not arrived
const PendingText = "… not yet translated"

// Line is one rendered row of the transcript
type Line struct {
	Kind           LineKind
	SegmentID      uuid.UUID
	SequenceNumber int64
	Text           string
}

// Render turns a state into transcript lines, segments in sequence order
// followed by the uncommitted partial. It has no side effects.
//
// Translation mode without a target language falls back to the original
// text, and translation-only mode hides the untranslated partial.
func Render(s State) []Line {
	showOriginal := s.ViewMode == ViewOriginal || s.ViewMode == ViewBoth || !s.HasTarget()
	showTranslation := (s.ViewMode == ViewTranslation || s.ViewMode == ViewBoth) && s.HasTarget()

	lines := make([]Line, 0, len(s.Segments)*2+1)
	for _, seg := range s.Segments {
		if showOriginal {
			lines = append(lines, Line{
				Kind:           LineOriginal,
				SegmentID:      seg.ID,
				SequenceNumber: seg.SequenceNumber,
				Text:           seg.Text,
			})
		}
		if showTranslation {
			text, ok := s.Translations[seg.ID]
			kind := LineTranslation
			if !ok {
				kind, text = LinePending, PendingText
			}
			lines = append(lines, Line{
				Kind:           kind,
				SegmentID:      seg.ID,
				SequenceNumber: seg.SequenceNumber,
				Text:           text,
			})
		}
	}

	if s.Partial != nil && showOriginal {
		lines = append(lines, Line{Kind: LinePartial, Text: s.Partial.Text})
	}
	return lines
}

// RenderText renders lines as plain text, one per line. Translations are
// indented under their original in both mode.
func RenderText(s State) string {
	var b strings.Builder
	for _, line := range Render(s) {
		switch line.Kind {
		case LineTranslation, LinePending:
			if s.ViewMode == ViewBoth {
				b.WriteString("    ")
			}
		case LinePartial:
			b.WriteString("> ")
		}
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
