package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/viewer"
)

// APIError is a non-2xx answer from the caption API
type APIError struct {
	StatusCode int
	Message    string
	Info       string
}

func (e *APIError) Error() string {
	if e.Info != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Info)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Info    string          `json:"info"`
	Data    json.RawMessage `json:"data"`
}

// HTTPSource loads viewer state from the public read endpoints of one event
type HTTPSource struct {
	baseURL string
	eventID string
	client  *http.Client
}

var _ viewer.Source = (*HTTPSource)(nil)

// NewHTTPSource creates a source for eventID (UUID or uid) served at baseURL.
// A nil client uses a 10s timeout.
func NewHTTPSource(baseURL, eventID string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		eventID: eventID,
		client:  client,
	}
}

// LoadSnapshot fetches segments, languages and the current partial
func (s *HTTPSource) LoadSnapshot(ctx context.Context) (viewer.Snapshot, error) {
	var snap viewer.Snapshot

	if err := s.get(ctx, "segments", nil, &snap.Segments); err != nil {
		return viewer.Snapshot{}, fmt.Errorf("load segments: %w", err)
	}

	languages, err := s.LoadAvailability(ctx)
	if err != nil {
		return viewer.Snapshot{}, err
	}
	snap.Languages = languages

	var partial struct {
		Text         string     `json:"text"`
		LanguageCode *string    `json:"language_code"`
		UpdatedAt    *time.Time `json:"updated_at"`
	}
	if err := s.get(ctx, "partial", nil, &partial); err != nil {
		return viewer.Snapshot{}, fmt.Errorf("load partial: %w", err)
	}
	if partial.Text != "" {
		p := &entities.PartialUpdate{
			Text:         partial.Text,
			LanguageCode: partial.LanguageCode,
		}
		if partial.UpdatedAt != nil {
			p.UpdatedAt = *partial.UpdatedAt
		}
		snap.Partial = p
	}

	return snap, nil
}

// LoadTranslations fetches every stored row of language
func (s *HTTPSource) LoadTranslations(ctx context.Context, language string) ([]entities.Translation, error) {
	var rows []entities.Translation
	if err := s.get(ctx, "translations", url.Values{"language": {language}}, &rows); err != nil {
		return nil, fmt.Errorf("load translations %s: %w", language, err)
	}
	return rows, nil
}

// LoadAvailability fetches the language availability set
func (s *HTTPSource) LoadAvailability(ctx context.Context) ([]entities.LanguageAvailability, error) {
	var languages []entities.LanguageAvailability
	if err := s.get(ctx, "languages", nil, &languages); err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}
	return languages, nil
}

func (s *HTTPSource) get(ctx context.Context, resource string, query url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/v1/events/%s/%s", s.baseURL, url.PathEscape(s.eventID), resource)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Info: env.Info}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}
