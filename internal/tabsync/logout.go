package tabsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/tutorship/pkg/idx"
)

var ErrAlreadyStarted = errors.New("tabsync: already started")

// LogoutSync runs a logout callback locally and in every other tab sharing
// the bus.
type LogoutSync struct {
	bus      Bus
	callback func(context.Context) error
	logger   *slog.Logger
	tabID    idx.ID
	now      func() time.Time

	mu  sync.Mutex
	sub *Subscription
	wg  sync.WaitGroup
}

// New creates a LogoutSync with a fresh tab id. The callback must be
// idempotent: it runs once for every logout seen, local or remote.
func New(bus Bus, callback func(context.Context) error, logger *slog.Logger) *LogoutSync {
	if logger == nil {
		logger = slog.Default()
	}
	tabID := idx.New()
	return &LogoutSync{
		bus:      bus,
		callback: callback,
		logger:   logger.With("tab_id", tabID.String()),
		tabID:    tabID,
		now:      time.Now,
	}
}

// TabID identifies this instance on the bus.
func (l *LogoutSync) TabID() string { return l.tabID.String() }

// Start registers the listener. Remote logouts invoke the callback until ctx
// is cancelled or Close is called.
func (l *LogoutSync) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub != nil {
		return ErrAlreadyStarted
	}

	sub, err := l.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to start logout sync: %w", err)
	}
	l.sub = sub

	l.wg.Add(1)
	go l.listen(ctx, sub)
	return nil
}

func (l *LogoutSync) listen(ctx context.Context, sub *Subscription) {
	defer l.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if ev.Key != LogoutKey || ev.Origin == l.TabID() {
				continue
			}

			attrs := []any{"origin", ev.Origin}
			if origin, err := idx.Parse(ev.Origin); err == nil {
				attrs = append(attrs, "origin_started_at", origin.Time())
			}
			l.logger.InfoContext(ctx, "logout received from another tab", attrs...)
			if err := l.callback(ctx); err != nil {
				l.logger.ErrorContext(ctx, "logout callback failed", "error", err)
			}
		}
	}
}

// Logout runs the callback in this tab, then signals every other tab. The
// signal is sent even when the local callback fails.
func (l *LogoutSync) Logout(ctx context.Context) error {
	cbErr := l.callback(ctx)

	ev := Event{
		Key:    LogoutKey,
		Value:  strconv.FormatInt(l.now().UnixMilli(), 10),
		Origin: l.TabID(),
	}
	pubErr := l.bus.Publish(ctx, ev)
	if pubErr != nil {
		l.logger.WarnContext(ctx, "failed to broadcast logout", "error", pubErr)
	}

	return errors.Join(cbErr, pubErr)
}

// Close deregisters the listener and waits for it to exit.
func (l *LogoutSync) Close() error {
	l.mu.Lock()
	sub := l.sub
	l.mu.Unlock()

	if sub == nil {
		return nil
	}
	err := sub.Close()
	l.wg.Wait()
	return err
}
