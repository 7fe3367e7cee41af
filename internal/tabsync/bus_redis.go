package tabsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBus connects tabs running in separate processes. A write is a SET of
// <prefix><key> followed by a PUBLISH of the event on <prefix>events.
type RedisBus struct {
	rdb    redis.UniversalClient
	prefix string
	logger *slog.Logger
}

func NewRedisBus(rdb redis.UniversalClient, prefix string, logger *slog.Logger) *RedisBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBus{rdb: rdb, prefix: prefix, logger: logger}
}

func (b *RedisBus) channel() string { return b.prefix + "events" }

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, err = b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.prefix+ev.Key, ev.Value, 0)
		pipe.Publish(ctx, b.channel(), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %q: %w", ev.Key, err)
	}
	return nil
}

// Value returns the last value written for key.
func (b *RedisBus) Value(ctx context.Context, key string) (string, bool, error) {
	v, err := b.rdb.Get(ctx, b.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *RedisBus) Subscribe(ctx context.Context) (*Subscription, error) {
	ps := b.rdb.Subscribe(ctx, b.channel())

	// Wait for the confirmation so no publish after return is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel(), err)
	}

	out := make(chan Event)
	done := make(chan struct{})
	msgs := ps.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed tab event", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				case <-done:
					return
				}
			}
		}
	}()

	return newSubscription(out, func() error {
		close(done)
		return ps.Close()
	}), nil
}
