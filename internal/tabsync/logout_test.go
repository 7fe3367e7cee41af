package tabsync_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/tutorship/internal/tabsync"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// counter is a logout callback that counts invocations.
type counter struct{ n atomic.Int32 }

func (c *counter) logout(context.Context) error {
	c.n.Add(1)
	return nil
}

func (c *counter) load() int32 { return c.n.Load() }

func newTab(t *testing.T, bus tabsync.Bus) (*tabsync.LogoutSync, *counter) {
	t.Helper()

	c := &counter{}
	ls := tabsync.New(bus, c.logout, slogx.Discard())
	require.NoError(t, ls.Start(context.Background()))
	t.Cleanup(func() { _ = ls.Close() })
	return ls, c
}

func buses() map[string]func(t *testing.T) tabsync.Bus {
	return map[string]func(t *testing.T) tabsync.Bus{
		"memory": func(t *testing.T) tabsync.Bus {
			bus := tabsync.NewMemoryBus()
			t.Cleanup(func() { _ = bus.Close() })
			return bus
		},
		"redis": func(t *testing.T) tabsync.Bus {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			return tabsync.NewRedisBus(rdb, "test:", slogx.Discard())
		},
	}
}

func TestLogoutPropagatesToOtherTabs(t *testing.T) {
	t.Parallel()

	for name, newBus := range buses() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bus := newBus(t)
			a, countA := newTab(t, bus)
			b, countB := newTab(t, bus)
			_, countC := newTab(t, bus)

			require.NoError(t, a.Logout(context.Background()))
			require.Equal(t, int32(1), countA.load())

			require.Eventually(t, func() bool { return countB.load() == 1 && countC.load() == 1 }, waitFor, tick)

			// A logout from B reaches A exactly once. Had A reacted to its own
			// write it would now be at three.
			require.NoError(t, b.Logout(context.Background()))
			require.Eventually(t, func() bool { return countA.load() == 2 && countC.load() == 2 }, waitFor, tick)
			require.Never(t, func() bool {
				return countA.load() != 2 || countB.load() != 2 || countC.load() != 2
			}, 100*time.Millisecond, tick)
		})
	}
}

func TestUnrelatedKeysAreIgnored(t *testing.T) {
	t.Parallel()

	for name, newBus := range buses() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bus := newBus(t)
			_, count := newTab(t, bus)

			require.NoError(t, bus.Publish(context.Background(), tabsync.Event{Key: "darkMode", Value: "true", Origin: "other"}))
			require.NoError(t, bus.Publish(context.Background(), tabsync.Event{Key: tabsync.LogoutKey, Value: "1", Origin: "other"}))

			require.Eventually(t, func() bool { return count.load() == 1 }, waitFor, tick)
			require.Never(t, func() bool { return count.load() != 1 }, 50*time.Millisecond, tick)
		})
	}
}

func TestCloseStopsListening(t *testing.T) {
	t.Parallel()

	bus := tabsync.NewMemoryBus()
	defer bus.Close()

	a, _ := newTab(t, bus)
	b, countB := newTab(t, bus)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	require.NoError(t, a.Logout(context.Background()))
	require.Never(t, func() bool { return countB.load() != 0 }, 50*time.Millisecond, tick)
}

func TestStartTwice(t *testing.T) {
	t.Parallel()

	a, _ := newTab(t, tabsync.NewMemoryBus())
	require.ErrorIs(t, a.Start(context.Background()), tabsync.ErrAlreadyStarted)
}

func TestLogoutWritesSharedValue(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	bus := tabsync.NewRedisBus(rdb, "tutorship:", slogx.Discard())
	a, _ := newTab(t, bus)
	require.NoError(t, a.Logout(context.Background()))

	v, ok, err := bus.Value(context.Background(), tabsync.LogoutKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, v)

	mem := tabsync.NewMemoryBus()
	b, _ := newTab(t, mem)
	require.NoError(t, b.Logout(context.Background()))
	v, ok = mem.Value(tabsync.LogoutKey)
	require.True(t, ok)
	require.NotEmpty(t, v)
}
