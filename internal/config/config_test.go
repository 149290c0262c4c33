package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"callsheet/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "./callsheet.db", cfg.DBPath)
	require.Equal(t, 8080, cfg.HTTPPort)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 30*time.Second, cfg.WriteWait())
	require.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CALLSHEET_DB_PATH", "/tmp/other.db")
	t.Setenv("CALLSHEET_HTTP_PORT", "9090")
	t.Setenv("CALLSHEET_WRITE_WAIT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/other.db", cfg.DBPath)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, 5*time.Second, cfg.WriteWait())
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("CALLSHEET_HTTP_PORT", "70000")
	_, err := Load()
	require.ErrorIs(t, err, model.ErrInvalidRequest)
}
