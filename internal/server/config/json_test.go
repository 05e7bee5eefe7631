package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"database_dsn":       "portal.db",
		"aes_key_hex":        "ff000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1dff",
		"hmac_secret_hex":    "ee000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1dee",
		"session_lifetime":   "30m",
		"login_max_attempts": 3,
		"login_window":       "5m",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "portal.db", cfg.DatabaseDSN)
		assert.Equal(t, "ff000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1dff", cfg.AESKeyHex)
		assert.Equal(t, "ee000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1dee", cfg.HMACSecretHex)
		assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
		assert.Equal(t, 3, cfg.LoginMaxAttempts)
		assert.Equal(t, 5*time.Minute, cfg.LoginWindow)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			DatabaseDSN:      "unchanged.db",
			SessionLifetime:  time.Hour,
			LoginMaxAttempts: 5,
			LoginWindow:      10 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "unchanged.db", cfg.DatabaseDSN)
		assert.Equal(t, time.Hour, cfg.SessionLifetime)
		assert.Equal(t, 5, cfg.LoginMaxAttempts)
		assert.Equal(t, 10*time.Minute, cfg.LoginWindow)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "missing.json")}

		assert.Panics(t, func() {
			cfg := &Config{}
			parseJson(cfg)
		})
	})

	t.Run("invalid json panics", func(t *testing.T) {
		broken := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o600))
		os.Args = []string{"testbin", "-c", broken}

		assert.Panics(t, func() {
			cfg := &Config{}
			parseJson(cfg)
		})
	})
}
