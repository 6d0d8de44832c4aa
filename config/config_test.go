package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		cfg, err := Load([]byte(`
APIHost = "https://example.test/"
UserAgent = "test-agent"
Timeout = 3
KeystorePath = "/tmp/keystore.json"

[Logging]
Level = "debug"
`))
		require.NoError(t, err)
		assert.Equal(t, "https://example.test", cfg.APIHost)
		assert.Equal(t, "test-agent", cfg.UserAgent)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout())
		assert.Equal(t, "/tmp/keystore.json", cfg.KeystorePath)
		assert.Equal(t, "DEBUG", cfg.Logging.Level)
	})

	t.Run("empty file gets defaults", func(t *testing.T) {
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	})

	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `APIHost = `},
		{"unknown key", `BaseURL = "https://x"`},
		{"bad scheme", `APIHost = "ftp://x"`},
		{"negative timeout", `Timeout = -1`},
		{"bad level", "[Logging]\nLevel = \"LOUD\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`UserAgent = "file-agent"`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-agent", cfg.UserAgent)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
