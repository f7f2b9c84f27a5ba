package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// MemoryPartialStore keeps the latest partial per event in process with expiration
type MemoryPartialStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*memoryItem
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      entities.PartialUpdate
	expireTime time.Time
}

// NewMemoryPartialStore creates a new in-memory partial store. A zero ttl keeps
// slots until they are cleared.
func NewMemoryPartialStore(ttl time.Duration) *MemoryPartialStore {
	store := &MemoryPartialStore{
		items: make(map[uuid.UUID]*memoryItem),
		ttl:   ttl,
		done:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired(time.Minute)

	return store
}

// Set stores the partial, replacing whatever the event had
func (ms *MemoryPartialStore) Set(_ context.Context, update entities.PartialUpdate) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item := &memoryItem{value: update}
	if ms.ttl > 0 {
		item.expireTime = time.Now().Add(ms.ttl)
	}
	ms.items[update.EventID] = item
	return nil
}

// Get retrieves the slot (nil if not found or expired)
func (ms *MemoryPartialStore) Get(_ context.Context, eventID uuid.UUID) (*entities.PartialUpdate, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[eventID]
	if !exists || item.expired(time.Now()) {
		return nil, nil
	}

	value := item.value
	return &value, nil
}

// Clear removes the slot
func (ms *MemoryPartialStore) Clear(_ context.Context, eventID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, eventID)
	return nil
}

// Close stops the cleanup goroutine
func (ms *MemoryPartialStore) Close() error {
	ms.once.Do(func() { close(ms.done) })
	return nil
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expireTime.IsZero() && now.After(i.expireTime)
}

// cleanupExpired periodically removes expired items
func (ms *MemoryPartialStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := time.Now()
			for key, item := range ms.items {
				if item.expired(now) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
