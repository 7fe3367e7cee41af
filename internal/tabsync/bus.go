// Package tabsync propagates logout between independent portal instances
// ("tabs") that share one storage area, the way a browser fires storage
// events in every other tab when a key is written.
package tabsync

import (
	"context"
	"errors"
	"sync"
)

// LogoutKey is the shared key written on logout.
const LogoutKey = "logout"

var ErrClosed = errors.New("tabsync: bus closed")

// Event is one write to the shared area.
type Event struct {
	Key   string `json:"key"`
	Value string `json:"value"`

	// Origin is the tab id of the writer.
	Origin string `json:"origin"`
}

// Bus stores a key and notifies every subscriber of the write.
type Bus interface {
	Publish(ctx context.Context, ev Event) error

	// Subscribe registers a listener. Events published after Subscribe
	// returns are delivered in order on the subscription channel.
	Subscribe(ctx context.Context) (*Subscription, error)
}

// Subscription delivers events until closed.
type Subscription struct {
	events <-chan Event

	once    sync.Once
	closeFn func() error
	err     error
}

func newSubscription(events <-chan Event, closeFn func() error) *Subscription {
	return &Subscription{events: events, closeFn: closeFn}
}

// Events is closed after Close or when the bus shuts down.
func (s *Subscription) Events() <-chan Event { return s.events }

// Close deregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() { s.err = s.closeFn() })
	return s.err
}
