package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/pkg/config"
)

const partialKeyPrefix = "caption-relay:partial:"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RedisPartialStore keeps the partial slot in Redis so every API replica sees
// the same latest text.
type RedisPartialStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPartialStore creates a Redis-backed partial store
func NewRedisPartialStore(client *redis.Client, ttl time.Duration) *RedisPartialStore {
	return &RedisPartialStore{client: client, ttl: ttl}
}

func partialKey(eventID uuid.UUID) string {
	return partialKeyPrefix + eventID.String()
}

// Set overwrites the slot with a fresh TTL
func (s *RedisPartialStore) Set(ctx context.Context, update entities.PartialUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal partial: %w", err)
	}
	if err := s.client.Set(ctx, partialKey(update.EventID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set partial: %w", err)
	}
	return nil
}

// Get returns the slot or nil when the key is missing
func (s *RedisPartialStore) Get(ctx context.Context, eventID uuid.UUID) (*entities.PartialUpdate, error) {
	payload, err := s.client.Get(ctx, partialKey(eventID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partial: %w", err)
	}

	var update entities.PartialUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		return nil, fmt.Errorf("failed to decode partial: %w", err)
	}
	return &update, nil
}

// Clear deletes the slot
func (s *RedisPartialStore) Clear(ctx context.Context, eventID uuid.UUID) error {
	if err := s.client.Del(ctx, partialKey(eventID)).Err(); err != nil {
		return fmt.Errorf("failed to clear partial: %w", err)
	}
	return nil
}
