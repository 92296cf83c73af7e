package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8080", cfg.Addr)
	require.Equal(t, "file", cfg.StoreType)
	require.Equal(t, "vault.json", cfg.StorePath)
	require.Equal(t, 100000, cfg.PBKDF2Iterations)
	require.Equal(t, "local-vault", cfg.ClientEnv)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VAULT_STORE_TYPE", "bolt")
	t.Setenv("VAULT_STORE_PATH", "/tmp/vault.db")
	t.Setenv("VAULT_PBKDF2_ITERATIONS", "600000")
	t.Setenv("VAULT_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "bolt", cfg.StoreType)
	require.Equal(t, "/tmp/vault.db", cfg.StorePath)
	require.Equal(t, 600000, cfg.PBKDF2Iterations)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("VAULT_PBKDF2_ITERATIONS", "0")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("VAULT_PBKDF2_ITERATIONS", "lots")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("VAULT_PBKDF2_ITERATIONS", "1000")
	t.Setenv("VAULT_LOG_FORMAT", "xml")
	_, err = Load()
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"message":"shown"`)

	_, err = NewLogger(&Config{LogLevel: "loud", LogFormat: "json"}, &buf)
	require.Error(t, err)
}
