package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

const channelPrefix = "caption-relay:events:"

// RedisBus fans stream events out through Redis pub/sub so viewers attached to
// any API replica receive them. One channel per event keeps per-event order.
type RedisBus struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBus creates a Redis-backed bus
func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

func eventChannel(event entities.StreamEvent) string {
	return channelPrefix + event.EventID.String()
}

func (b *RedisBus) Publish(ctx context.Context, event entities.StreamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stream event: %w", err)
	}
	if err := b.client.Publish(ctx, eventChannel(event), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish stream event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan entities.StreamEvent, error) {
	pubsub := b.client.PSubscribe(ctx, channelPrefix+"*")
	// Wait for the subscription confirmation so nothing published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan entities.StreamEvent, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event entities.StreamEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					if b.logger != nil {
						b.logger.Warn("⚠️ Dropping malformed stream event",
							zap.String("channel", msg.Channel),
							zap.String("payload", truncate(msg.Payload, 120)),
							zap.Error(err),
						)
					}
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *RedisBus) Close() error {
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.ToValidUTF8(s[:maxLen], "") + "..."
}
