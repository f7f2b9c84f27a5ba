package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/pkg/config"
)

func TestTranslate_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("authorization = %q", got)
		}

		var payload ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Model != "gpt-4o-mini" || payload.Temperature != 0 {
			t.Fatalf("unexpected model settings %+v", payload)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages %+v", payload.Messages)
		}
		var input entities.ProviderRequest
		if err := json.Unmarshal([]byte(payload.Messages[1].Content), &input); err != nil {
			t.Fatalf("user message is not the batch: %v", err)
		}
		if input.TargetLanguage != "fr" || len(input.Items) != 1 || input.PartialText != "in prog" {
			t.Fatalf("unexpected batch %+v", input)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices":[{"message":{"content":"[{\"id\":\"a\",\"translated_text\":\"bonjour\"}]"}}]}`))
	}))
	defer ts.Close()

	client := NewChatClient(config.ProviderConfig{BaseURL: ts.URL, APIKey: "test-key", Timeout: time.Second})
	out, err := client.Translate(context.Background(), entities.ProviderRequest{
		TargetLanguage: "fr",
		Items:          []entities.ProviderItem{{ID: "a", Text: "hello"}},
		PartialText:    "in prog",
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(out, "bonjour") {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestTranslate_NotConfigured(t *testing.T) {
	client := NewChatClient(config.ProviderConfig{Timeout: time.Second})
	_, err := client.Translate(context.Background(), entities.ProviderRequest{TargetLanguage: "fr"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestTranslate_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer ts.Close()

	client := NewChatClient(config.ProviderConfig{BaseURL: ts.URL, APIKey: "k", Timeout: time.Second})
	_, err := client.Translate(context.Background(), entities.ProviderRequest{TargetLanguage: "fr"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d", statusErr.StatusCode)
	}
}

func TestTranslate_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	client := NewChatClient(config.ProviderConfig{BaseURL: ts.URL, APIKey: "k", Timeout: time.Second})
	out, err := client.Translate(context.Background(), entities.ProviderRequest{TargetLanguage: "fr"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "" {
		t.Fatalf("content = %q, want empty", out)
	}
}
