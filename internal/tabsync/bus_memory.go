package tabsync

import (
	"context"
	"sync"
)

// MemoryBus connects tabs living in the same process.
type MemoryBus struct {
	// mu is held for reading while delivering, so a subscriber channel is
	// never closed under a sender.
	mu     sync.RWMutex
	subs   map[*memorySub]struct{}
	closed bool

	valuesMu sync.Mutex
	values   map[string]string
}

type memorySub struct {
	ch       chan Event
	done     chan struct{}
	stopOnce sync.Once
}

func (s *memorySub) stop() { s.stopOnce.Do(func() { close(s.done) }) }

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		values: make(map[string]string),
		subs:   make(map[*memorySub]struct{}),
	}
}

// Value returns the last value written for key.
func (b *MemoryBus) Value(key string) (string, bool) {
	b.valuesMu.Lock()
	defer b.valuesMu.Unlock()
	v, ok := b.values[key]
	return v, ok
}

func (b *MemoryBus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	b.valuesMu.Lock()
	b.values[ev.Key] = ev.Value
	b.valuesMu.Unlock()

	for s := range b.subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) (*Subscription, error) {
	s := &memorySub{
		ch:   make(chan Event, 16),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	b.subs[s] = struct{}{}

	return newSubscription(s.ch, func() error {
		b.remove(s)
		return nil
	}), nil
}

func (b *MemoryBus) remove(s *memorySub) {
	// Wake blocked publishers so they release the read lock.
	s.stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
}

// Close ends every subscription.
func (b *MemoryBus) Close() error {
	b.mu.RLock()
	for s := range b.subs {
		s.stop()
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
