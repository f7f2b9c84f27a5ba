package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/pkg/config"
)

type testHub struct {
	bus       *MemoryBus
	server    *httptest.Server
	connected chan struct{}
}

func startHub(t *testing.T, eventID uuid.UUID) *testHub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewMemoryBus(16)
	hub := NewHub(bus, config.RealtimeConfig{SendBuffer: 16}, nil, nil)
	go hub.Run(ctx)

	th := &testHub{bus: bus, connected: make(chan struct{}, 4)}
	th.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeWS(w, r, eventID, r.URL.Query().Get("language")); err != nil {
			t.Errorf("ServeWS: %v", err)
			return
		}
		th.connected <- struct{}{}
	}))
	t.Cleanup(func() {
		th.server.Close()
		cancel()
		bus.Close()
	})
	return th
}

func (th *testHub) dial(t *testing.T, language string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(th.server.URL, "http") + "/?language=" + language
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	select {
	case <-th.connected:
	case <-time.After(2 * time.Second):
		t.Fatal("viewer never registered")
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) entities.StreamEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event entities.StreamEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	return event
}

func translationEvent(eventID uuid.UUID, lang, text string) entities.StreamEvent {
	return entities.StreamEvent{
		Type:    entities.StreamTranslationArrived,
		EventID: eventID,
		Translation: &entities.Translation{
			ID: uuid.New(), EventID: eventID, SegmentID: uuid.New(),
			LanguageCode: lang, TranslatedText: text,
		},
	}
}

func segmentEvent(eventID uuid.UUID, seq int64, text string) entities.StreamEvent {
	return entities.StreamEvent{
		Type:    entities.StreamSegmentArrived,
		EventID: eventID,
		Segment: entities.NewSegment(eventID, seq, text, nil),
	}
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	eventID := uuid.New()
	th := startHub(t, eventID)
	conn := th.dial(t, "")
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if err := th.bus.Publish(ctx, segmentEvent(eventID, i, "s")); err != nil {
			t.Fatal(err)
		}
	}
	for i := int64(1); i <= 5; i++ {
		got := readEvent(t, conn)
		if got.Type != entities.StreamSegmentArrived || got.Segment.SequenceNumber != i {
			t.Fatalf("event %d = %+v", i, got)
		}
	}
}

func TestHub_FiltersTranslationsByLanguage(t *testing.T) {
	eventID := uuid.New()
	th := startHub(t, eventID)
	conn := th.dial(t, "fr")
	ctx := context.Background()

	th.bus.Publish(ctx, translationEvent(eventID, "de", "hallo"))
	th.bus.Publish(ctx, translationEvent(uuid.New(), "fr", "other event"))
	th.bus.Publish(ctx, translationEvent(eventID, "fr", "bonjour"))

	got := readEvent(t, conn)
	if got.Translation == nil || got.Translation.TranslatedText != "bonjour" {
		t.Fatalf("got %+v, want only the fr row of this event", got)
	}
}

func TestHub_LanguageControlMessage(t *testing.T) {
	eventID := uuid.New()
	th := startHub(t, eventID)
	conn := th.dial(t, "fr")
	ctx := context.Background()

	if err := conn.WriteJSON(ControlMessage{Action: "language", Language: "DE"}); err != nil {
		t.Fatal(err)
	}

	// The control message is applied asynchronously; keep publishing until the
	// new scope takes effect.
	received := make(chan entities.StreamEvent, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		var event entities.StreamEvent
		if err := conn.ReadJSON(&event); err == nil {
			received <- event
		}
		close(received)
	}()

	deadline := time.After(3 * time.Second)
	for {
		th.bus.Publish(ctx, translationEvent(eventID, "de", "hallo"))
		select {
		case got, ok := <-received:
			if !ok {
				t.Fatal("no event after language change")
			}
			if got.Translation.LanguageCode != "de" {
				t.Fatalf("got %+v, want de", got)
			}
			return
		case <-deadline:
			t.Fatal("language change never applied")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestMemoryBus_SubscriberClosedOnCancel(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("unexpected event")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed")
	}

	// Publishing after the subscriber left must not block.
	if err := bus.Publish(context.Background(), segmentEvent(uuid.New(), 1, "x")); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryBus_ClosedRejectsPublish(t *testing.T) {
	bus := NewMemoryBus(1)
	bus.Close()
	if err := bus.Publish(context.Background(), segmentEvent(uuid.New(), 1, "x")); err != ErrBusClosed {
		t.Fatalf("err = %v, want ErrBusClosed", err)
	}
}
