package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/pkg/config"
)

// ErrNotConfigured is returned when no API key is set for the provider.
var ErrNotConfigured = errors.New("translation provider api key not configured")

// StatusError is a non-success HTTP answer from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// TranslationSystemPrompt instructs the model to translate items only and to
// answer with a bare JSON array.
const TranslationSystemPrompt = "Translate only the completed items to the target language. " +
	"Ignore partial_text. Return a strict JSON array of objects with keys id and translated_text. " +
	"Do not include any extra fields or commentary."

// Message is one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient calls an OpenAI-compatible chat completions endpoint
type ChatClient struct {
	baseURL     string
	model       string
	temperature float64
	configured  bool
	client      *http.Client
}

// NewChatClient creates a client from the provider config. The bearer token
// is attached by an oauth2 transport so it never appears in request logging.
func NewChatClient(cfg config.ProviderConfig) *ChatClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.APIKey != "" {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
			Base:   http.DefaultTransport,
		}
	}

	return &ChatClient{
		baseURL:     base,
		model:       model,
		temperature: cfg.Temperature,
		configured:  cfg.APIKey != "",
		client:      httpClient,
	}
}

// Model returns the configured model name
func (c *ChatClient) Model() string {
	return c.model
}

// BuildMessages renders the chat prompt for a translation batch
func BuildMessages(req entities.ProviderRequest) ([]Message, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: TranslationSystemPrompt},
		{Role: "user", Content: string(input)},
	}, nil
}

// Translate sends one batch and returns the raw assistant content. Parsing the
// content is left to the caller.
func (c *ChatClient) Translate(ctx context.Context, req entities.ProviderRequest) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	messages, err := BuildMessages(req)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	return cr.Choices[0].Message.Content, nil
}
