package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/stretchr/testify/require"
)

// noEnvFile points ENV_FILE somewhere empty so a developer's .env does not
// leak into the test.
func noEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfigDefaults(t *testing.T) {
	noEnvFile(t)
	t.Setenv("API_BASE_URL", "https://api.tutorship.example/v1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://api.tutorship.example/v1", cfg.APIBaseURL)
	require.Equal(t, "tutorship.db", cfg.StorageFile)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, "tutorship:", cfg.RedisPrefix)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Zero(t, cfg.RequestTimeout)
	require.Equal(t, httpx.LoginLimit, cfg.LoginLimit)
}

func TestLoadConfigRequiresAbsoluteAPIURL(t *testing.T) {
	noEnvFile(t)

	t.Setenv("API_BASE_URL", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("API_BASE_URL", "api/v1")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://localhost:3000\nPORT=9090\nREQUEST_TIMEOUT=15\n"), 0o600))
	t.Setenv("ENV_FILE", path)

	// godotenv.Load sets variables with os.Setenv; register them so they are
	// restored after the test.
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	for _, k := range []string{"API_BASE_URL", "PORT", "REQUEST_TIMEOUT"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfigRateLimitOverrides(t *testing.T) {
	noEnvFile(t)
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	t.Setenv("RATELIMIT_LOGIN_BURST", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 2, cfg.LoginLimit.Burst)
	require.Equal(t, httpx.LoginLimit.RequestsPerWindow, cfg.LoginLimit.RequestsPerWindow)
}
