package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		APIBaseURL:          "http://127.0.0.1:1",
		StorageFile:         filepath.Join(t.TempDir(), "portal.db"),
		RedisPrefix:         "test:",
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,
	}
}

func TestNewWithMemoryBus(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)

	require.NoError(t, app.Session().Start(context.Background()))

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, app.Shutdown())
}

func TestNewWithRedisBus(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.RedisAddr = mr.Addr()

	app, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, app.Session().Start(context.Background()))

	// Signed out already, but the broadcast still goes through redis.
	require.NoError(t, app.Session().Unauthorize(context.Background()))
	v, err := mr.Get("test:logout")
	require.NoError(t, err)
	require.NotEmpty(t, v)

	require.NoError(t, app.Shutdown())
}

func TestNewFailsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.RedisAddr = addr

	_, err := New(cfg)
	require.Error(t, err)
}
