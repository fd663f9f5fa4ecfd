package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"procure/internal/config"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PROCURE_CONFIG", "PROCURE_API_BASE_URL", "PROCURE_DB_DRIVER", "PROCURE_DB_DSN",
		"POSTGRES_CONN", "PROCURE_LISTEN_ADDR", "PROCURE_LOG_LEVEL", "PROCURE_HTTP_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "procure.db", filepath.Base(cfg.DBDSN))
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "procure.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: https://procure.example.com/api/
listen_addr: 127.0.0.1:9000
http_timeout: 5s
log_level: debug
`), 0o600))
	t.Setenv("PROCURE_LISTEN_ADDR", ":7000")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://procure.example.com/api", cfg.APIBaseURL)
	require.Equal(t, ":7000", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(config.EnvFile, []byte("PROCURE_HTTP_TIMEOUT=0s\n"), 0o600))
	os.Unsetenv("PROCURE_HTTP_TIMEOUT")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Zero(t, cfg.HTTPTimeout)
}

func TestPostgresConnFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_CONN", "postgres://u:p@localhost/procure?sslmode=disable")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "postgres://u:p@localhost/procure?sslmode=disable", cfg.DBDSN)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("PROCURE_DB_DRIVER", "mysql")
	_, err = config.Load("")
	require.ErrorContains(t, err, "unsupported db_driver")

	t.Setenv("PROCURE_DB_DRIVER", "")
	t.Setenv("PROCURE_HTTP_TIMEOUT", "soon")
	_, err = config.Load("")
	require.ErrorContains(t, err, "PROCURE_HTTP_TIMEOUT")
}
