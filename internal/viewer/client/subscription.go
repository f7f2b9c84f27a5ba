package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/realtime"
	"github.com/johnquangdev/caption-relay/internal/viewer"
)

// ErrStreamNotFound is returned when the event has no stream endpoint
var ErrStreamNotFound = errors.New("event stream not found")

// Sink receives converted stream events. *viewer.Engine satisfies it.
type Sink interface {
	Send(ctx context.Context, ev viewer.Event) bool
}

// Subscription keeps one websocket open to the event stream and feeds its
// envelopes to a Sink. Drops are reported as viewer.StreamLost, reconnects
// as viewer.StreamRestored.
type Subscription struct {
	streamURL    string
	sink         Sink
	dialer       *websocket.Dialer
	header       http.Header
	logger       *zap.Logger
	newBackOff   func() backoff.BackOff
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	language string
}

var _ viewer.Scoper = (*Subscription)(nil)

// SubscriptionOption customizes a Subscription
type SubscriptionOption func(*Subscription)

// WithSubscriptionLogger sets the logger
func WithSubscriptionLogger(logger *zap.Logger) SubscriptionOption {
	return func(s *Subscription) { s.logger = logger }
}

// WithBackOff sets the reconnect policy
func WithBackOff(newBackOff func() backoff.BackOff) SubscriptionOption {
	return func(s *Subscription) { s.newBackOff = newBackOff }
}

// WithHeader adds headers to the websocket handshake
func WithHeader(header http.Header) SubscriptionOption {
	return func(s *Subscription) { s.header = header }
}

// WithReadTimeout sets how long the stream may stay silent, pings included
func WithReadTimeout(d time.Duration) SubscriptionOption {
	return func(s *Subscription) { s.readTimeout = d }
}

func defaultReconnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// NewSubscription creates a subscription to the stream of eventID served at
// baseURL (http or https). language is the initial translation scope.
func NewSubscription(baseURL, eventID, language string, sink Sink, opts ...SubscriptionOption) (*Subscription, error) {
	streamURL, err := streamEndpoint(baseURL, eventID)
	if err != nil {
		return nil, err
	}

	s := &Subscription{
		streamURL:    streamURL,
		sink:         sink,
		dialer:       websocket.DefaultDialer,
		logger:       zap.NewNop(),
		newBackOff:   defaultReconnectBackOff,
		readTimeout:  75 * time.Second,
		writeTimeout: 10 * time.Second,
		language:     language,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func streamEndpoint(baseURL, eventID string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	u.Path = fmt.Sprintf("%s/v1/events/%s/stream", u.Path, url.PathEscape(eventID))
	return u.String(), nil
}

// Connect dials once, retrying with backoff until ctx is done. Calling it
// before Run makes the first connection count as the initial one, so no
// StreamRestored is reported for it.
func (s *Subscription) Connect(ctx context.Context) error {
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("🔄 Stream connect failed, retrying",
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(func() error {
		return s.dial(ctx)
	}, backoff.WithContext(s.newBackOff(), ctx), notify)
}

func (s *Subscription) dial(ctx context.Context) error {
	s.mu.Lock()
	language := s.language
	s.mu.Unlock()

	endpoint := s.streamURL
	if language != "" {
		endpoint += "?" + url.Values{"language": {language}}.Encode()
	}

	conn, resp, err := s.dialer.DialContext(ctx, endpoint, s.header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(ErrStreamNotFound)
		}
		return err
	}

	s.mu.Lock()
	s.conn = conn
	// the language may have changed while dialing
	if s.language != language {
		conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		err = conn.WriteJSON(realtime.ControlMessage{Action: realtime.ActionLanguage, Language: s.language})
	}
	s.mu.Unlock()
	if err != nil {
		s.drop()
		return err
	}

	s.logger.Info("✅ Stream connected", zap.String("url", s.streamURL))
	return nil
}

// Run reads the stream until ctx is done, reconnecting after every drop.
func (s *Subscription) Run(ctx context.Context) error {
	defer s.drop()

	connected := s.current() != nil
	for {
		if s.current() == nil {
			if err := s.Connect(ctx); err != nil {
				return err
			}
			if connected {
				s.sink.Send(ctx, viewer.StreamRestored{})
			}
		}
		connected = true

		err := s.read(ctx, s.current())
		s.drop()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Warn("⚠️ Stream lost", zap.Error(err))
		if !s.sink.Send(ctx, viewer.StreamLost{Err: err}) {
			return ctx.Err()
		}
	}
}

func (s *Subscription) read(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(s.writeTimeout))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))

		var envelope entities.StreamEvent
		if err := json.Unmarshal(payload, &envelope); err != nil {
			s.logger.Warn("⚠️ Skipping malformed stream envelope", zap.Error(err))
			continue
		}
		ev, ok := viewer.FromStreamEvent(envelope)
		if !ok {
			continue
		}
		if !s.sink.Send(ctx, ev) {
			return ctx.Err()
		}
	}
}

// SetLanguage re-scopes translation deliveries. While disconnected the
// language is kept for the next handshake.
func (s *Subscription) SetLanguage(ctx context.Context, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = language
	if s.conn == nil {
		return nil
	}
	deadline := time.Now().Add(s.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	s.conn.SetWriteDeadline(deadline)
	return s.conn.WriteJSON(realtime.ControlMessage{Action: realtime.ActionLanguage, Language: language})
}

func (s *Subscription) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Subscription) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
