package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tutorship/internal/storage"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestCookiesRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cookies := newTestStore(t).Cookies()

	_, err := cookies.Get(ctx, "refreshToken")
	require.ErrorIs(t, err, storage.ErrNotFound)

	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC()
	require.NoError(t, cookies.Set(ctx, storage.Cookie{Name: "refreshToken", Value: "rt-1", Expires: expires}))

	got, err := cookies.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "rt-1", got.Value)
	require.Equal(t, "/", got.Path)
	require.True(t, expires.Equal(got.Expires))

	// Setting again replaces the value.
	require.NoError(t, cookies.Set(ctx, storage.Cookie{Name: "refreshToken", Value: "rt-2"}))
	got, err = cookies.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "rt-2", got.Value)
	require.True(t, got.Expires.IsZero())

	require.NoError(t, cookies.Delete(ctx, "refreshToken"))
	_, err = cookies.Get(ctx, "refreshToken")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, cookies.Delete(ctx, "refreshToken"))
}

func TestDeleteCookieIfValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cookies := newTestStore(t).Cookies()

	require.NoError(t, cookies.Set(ctx, storage.Cookie{Name: "refreshToken", Value: "rt-new"}))

	deleted, err := cookies.DeleteIfValue(ctx, "refreshToken", "rt-old")
	require.NoError(t, err)
	require.False(t, deleted)

	got, err := cookies.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "rt-new", got.Value)

	deleted, err = cookies.DeleteIfValue(ctx, "refreshToken", "rt-new")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = cookies.Get(ctx, "refreshToken")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpiredCookieIsNotReturned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	cookies := s.Cookies()

	require.NoError(t, cookies.Set(ctx, storage.Cookie{Name: "c", Value: "v", Expires: now.Add(time.Minute)}))
	_, err := cookies.Get(ctx, "c")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = cookies.Get(ctx, "c")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ls := newTestStore(t).LocalStorage()

	_, err := ls.GetItem(ctx, storage.PrefLanguage)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, ls.SetItem(ctx, storage.PrefLanguage, "en"))
	require.NoError(t, ls.SetItem(ctx, storage.PrefLanguage, "fr"))
	require.NoError(t, ls.SetItem(ctx, storage.PrefDarkMode, "true"))

	v, err := ls.GetItem(ctx, storage.PrefLanguage)
	require.NoError(t, err)
	require.Equal(t, "fr", v)

	require.NoError(t, ls.RemoveItem(ctx, storage.PrefLanguage))
	_, err = ls.GetItem(ctx, storage.PrefLanguage)
	require.ErrorIs(t, err, storage.ErrNotFound)

	v, err = ls.GetItem(ctx, storage.PrefDarkMode)
	require.NoError(t, err)
	require.Equal(t, "true", v)
}
