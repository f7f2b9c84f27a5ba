package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/pkg/config"
	"github.com/johnquangdev/caption-relay/pkg/metrics"
)

// ControlMessage is sent by a viewer to change what it receives
type ControlMessage struct {
	Action   string `json:"action"`
	Language string `json:"language"`
}

// ActionLanguage re-scopes translation deliveries to ControlMessage.Language
const ActionLanguage = "language"

// Hub manages viewer WebSocket connections. A single goroutine owns the
// client set and forwards bus events in arrival order.
type Hub struct {
	bus        Bus
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
	upgrader   websocket.Upgrader
	cfg        config.RealtimeConfig
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewHub creates a hub fed by bus
func NewHub(bus Bus, cfg config.RealtimeConfig, logger *zap.Logger, m *metrics.Metrics) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &Hub{
		bus:        bus,
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

// Run subscribes to the bus and serves clients until ctx is done
func (h *Hub) Run(ctx context.Context) error {
	events, err := h.bus.Subscribe(ctx)
	if err != nil {
		close(h.stopped)
		return err
	}
	defer close(h.stopped)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			set, ok := h.clients[client.eventID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.eventID] = set
			}
			set[client] = struct{}{}
			h.metrics.ViewerConnected()
			if h.logger != nil {
				h.logger.Debug("Viewer connected",
					zap.String("event_id", client.eventID.String()),
					zap.Int("viewers", len(set)),
				)
			}

		case client := <-h.unregister:
			h.remove(client)

		case event, ok := <-events:
			if !ok {
				return nil
			}
			h.metrics.RecordStreamPublished(string(event.Type))
			h.dispatch(event)
		}
	}
}

// dispatch forwards event to the event's clients. A client whose buffer is
// full is disconnected; it reconnects and reloads instead of silently
// missing events.
func (h *Hub) dispatch(event entities.StreamEvent) {
	scope := event.LanguageScope()
	for client := range h.clients[event.EventID] {
		if scope != "" && scope != client.Language() {
			continue
		}
		select {
		case client.send <- event:
		default:
			h.metrics.RecordStreamDropped()
			if h.logger != nil {
				h.logger.Warn("⚠️ Viewer too slow, disconnecting",
					zap.String("event_id", event.EventID.String()),
				)
			}
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.eventID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.eventID)
	}
	close(client.send)
	h.metrics.ViewerDisconnected()
}

func (h *Hub) closeAll() {
	for _, set := range h.clients {
		for client := range set {
			h.remove(client)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to eventID.
// language selects which translation envelopes the viewer receives; it may
// be empty or "none".
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, eventID uuid.UUID, language string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		eventID: eventID,
		send:    make(chan entities.StreamEvent, h.cfg.SendBuffer),
	}
	client.SetLanguage(language)

	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// Client is one viewer connection
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	eventID uuid.UUID
	send    chan entities.StreamEvent

	mu       sync.RWMutex
	language string
}

// Language returns the translation scope of the connection
func (c *Client) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// SetLanguage changes the translation scope
func (c *Client) SetLanguage(language string) {
	language = entities.NormalizeLanguageCode(language)
	if language == entities.LanguageNone {
		language = ""
	}
	c.mu.Lock()
	c.language = language
	c.mu.Unlock()
}

// readPump handles control messages until the connection closes
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(2 * c.hub.cfg.PingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * c.hub.cfg.PingInterval))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ControlMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Action == ActionLanguage {
			c.SetLanguage(msg.Language)
		}
	}
}

// writePump writes events in order and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
