package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, expected := range tests {
		assert.Equal(t, expected, ParseLevel(in), "level %q", in)
	}
}

func TestInitializeWriter(t *testing.T) {
	defer Initialize("info", false)

	t.Run("json output carries service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		InitializeWriter(&buf, "info", true)

		Log.Info("registered", "email", "a@b.com")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "registered", entry["msg"])
		assert.Equal(t, "accounts", entry["service"])
		assert.Equal(t, "a@b.com", entry["email"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		InitializeWriter(&buf, "warn", false)

		Log.Info("hidden")
		assert.Empty(t, buf.String())

		Log.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}
