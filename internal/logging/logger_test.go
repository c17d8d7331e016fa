package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("text output hides time and debug", func(t *testing.T) {
		t.Setenv("SAFE_LOG_LEVEL", "")
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{})
		log.Debug("hidden")
		log.Info("operation committed", "nonce", 3)

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.NotContains(t, out, "time=")
		assert.Contains(t, out, "nonce=3")
	})

	t.Run("debug adds source", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{Debug: true})
		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "source=")
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{JSON: true})
		log.Warn("operation rejected", "method", "setThreshold")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, "setThreshold", rec["method"])
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/executor.go", shortPath("/home/dev/cash-safe/internal/usecase/executor.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}
