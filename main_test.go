package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMainApp(t *testing.T) {
	t.Run("app structure", func(t *testing.T) {
		app := newApp()
		require.Equal(t, "safe-client", app.Name)
		require.Equal(t, 6, len(app.Commands))
		require.True(t, app.DisableSliceFlagSeparator)

		commandNames := make(map[string]bool)
		for _, cmd := range app.Commands {
			commandNames[cmd.Name] = true
		}
		for _, name := range []string{"token", "tip", "pin", "me", "verify-tip", "register"} {
			require.True(t, commandNames[name], name)
		}
		require.False(t, commandNames["invalid-command"])
	})

	t.Run("help command", func(t *testing.T) {
		var buf bytes.Buffer
		app := newApp()
		app.Writer = &buf

		err := app.Run(context.Background(), []string{"safe-client", "--help"})
		require.NoError(t, err)

		output := buf.String()
		require.Contains(t, output, "safe-client")
		require.Contains(t, output, "COMMANDS:")
		require.Contains(t, output, "verify-tip")
	})
}

// TestMainCommands verifies that every command renders its help
func TestMainCommands(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		contains string
	}{
		{"token sign help", []string{"safe-client", "token", "sign", "--help"}, "--request-id"},
		{"token inspect help", []string{"safe-client", "token", "inspect", "--help"}, "--token"},
		{"tip body help", []string{"safe-client", "tip", "body", "--help"}, "--field"},
		{"pin encrypt help", []string{"safe-client", "pin", "encrypt", "--help"}, "--iterator"},
		{"me help", []string{"safe-client", "me", "--help"}, "--keystore"},
		{"verify-tip help", []string{"safe-client", "verify-tip", "--help"}, "--config"},
		{"register help", []string{"safe-client", "register", "--help"}, "--log-level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			app := newApp()
			app.Writer = &buf
			app.ErrWriter = &buf

			require.NoError(t, app.Run(context.Background(), tc.args))
			require.Contains(t, buf.String(), tc.contains)
		})
	}
}
