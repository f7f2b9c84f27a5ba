package realtime

import (
	"context"
	"sync"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// Bus carries stream events from producers (ingest, dispatch, admin) to the
// hubs that hold viewer connections. Delivery order per subscriber follows
// publish order.
type Bus interface {
	Publish(ctx context.Context, event entities.StreamEvent) error
	// Subscribe receives every event published after it returns. The channel
	// is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan entities.StreamEvent, error)
	Close() error
}

// MemoryBus is a single-process Bus used when Redis is disabled and in tests
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[*memorySub]struct{}
	buffer int
	closed bool
}

type memorySub struct {
	ch   chan entities.StreamEvent
	done chan struct{}
	once sync.Once
}

func (s *memorySub) stop() {
	s.once.Do(func() { close(s.done) })
}

// NewMemoryBus creates an in-process bus. buffer sizes each subscriber channel.
func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryBus{
		subs:   make(map[*memorySub]struct{}),
		buffer: buffer,
	}
}

// Publish hands event to every subscriber, blocking while a subscriber is full
func (b *MemoryBus) Publish(ctx context.Context, event entities.StreamEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) (<-chan entities.StreamEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &memorySub{
		ch:   make(chan entities.StreamEvent, b.buffer),
		done: make(chan struct{}),
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-sub.done:
		}
		b.remove(sub)
	}()

	return sub.ch, nil
}

// remove unblocks publishers first, then closes the channel once no
// publisher holds the read lock.
func (b *MemoryBus) remove(sub *memorySub) {
	sub.stop()
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Close closes every subscriber channel
func (b *MemoryBus) Close() error {
	b.mu.RLock()
	subs := make([]*memorySub, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.stop()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
	return nil
}
