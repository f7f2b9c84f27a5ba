package translation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParsedItem is one validated {id, translated_text} entry of a provider batch.
type ParsedItem struct {
	ID             string
	TranslatedText string
}

type batchItem struct {
	ID             *string `json:"id"`
	TranslatedText *string `json:"translated_text"`
}

// Parser validates provider output against the batch that was sent
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseBatch decodes content as a strict JSON array of {id, translated_text}.
// Every id must belong to the pending batch and appear at most once. A subset
// of the batch is accepted.
func (p *Parser) ParseBatch(content string, pending map[string]struct{}) ([]ParsedItem, error) {
	content = extractJSON(content)
	if !strings.HasPrefix(content, "[") {
		return nil, fmt.Errorf("model output is not a JSON array")
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	var raw []batchItem
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON array")
	}

	items := make([]ParsedItem, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, item := range raw {
		if item.ID == nil || *item.ID == "" {
			return nil, fmt.Errorf("item %d: missing id", i)
		}
		if item.TranslatedText == nil {
			return nil, fmt.Errorf("item %d: missing translated_text", i)
		}
		id := *item.ID
		if _, ok := pending[id]; !ok {
			return nil, fmt.Errorf("item %d: unknown id %q", i, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("item %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
		items = append(items, ParsedItem{ID: id, TranslatedText: *item.TranslatedText})
	}

	return items, nil
}

// extractJSON strips a markdown code fence the model may wrap around its answer
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
