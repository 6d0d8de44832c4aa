package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizingHandlerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	require.NoError(t, err)

	logger.Debug("request",
		"session_private_key", "000102",
		"pin_base64", "abc",
		"authorization", "Bearer xyz",
		"user_id", "user-1",
		"path", "/pin/verify",
	)

	out := buf.String()
	assert.NotContains(t, out, "000102")
	assert.NotContains(t, out, "Bearer xyz")
	assert.NotContains(t, out, "user-1")
	assert.Contains(t, out, "session_private_key="+redactedValue)
	assert.Contains(t, out, "pin_base64="+redactedValue)
	assert.Contains(t, out, "user_id_fp=fp_")
	assert.Contains(t, out, "path=/pin/verify")
}

func TestSanitizingHandlerPINKeys(t *testing.T) {
	tests := []struct {
		key      string
		redacted bool
	}{
		{"pin", true},
		{"pin_base64", true},
		{"old_pin", true},
		{"PIN", true},
		{"ping", false},
		{"mapping", false},
		{"shipping", false},
		{"spinner", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(WrapHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("attr", tt.key, "value-1")

			out := buf.String()
			if tt.redacted {
				assert.NotContains(t, out, "value-1")
				assert.Contains(t, out, tt.key+"="+redactedValue)
			} else {
				assert.Contains(t, out, tt.key+"=value-1")
			}
		})
	}
}

func TestSanitizingHandlerWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewTextHandler(&buf, nil)))
	logger.With("spend_private_key", "deadbeef").Info("grouped",
		slog.Group("creds", slog.String("server_public_key", "cafe"), slog.String("status", "ok")))

	out := buf.String()
	assert.NotContains(t, out, "deadbeef")
	assert.Contains(t, out, "creds.status=ok")
	assert.Contains(t, out, "creds.server_public_key=cafe")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestHandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	rec := slog.NewRecord(time.Now(), slog.LevelError, "msg", 0)
	rec.AddAttrs(slog.String("token", "t"))
	require.NoError(t, h.WithGroup("g").Handle(context.Background(), rec))
	assert.True(t, strings.Contains(buf.String(), "g.token="+redactedValue))

	assert.Nil(t, WrapHandler(nil))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "", Fingerprint("  "))
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
}
