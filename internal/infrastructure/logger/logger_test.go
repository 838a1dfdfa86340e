package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(raw) == 0 {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal(raw, &line))
		lines = append(lines, line)
	}
	return lines
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestStructuredLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "warn")

	log.LogInfo(context.Background(), "dropped")
	log.LogWarning(context.Background(), "kept", "attempt", 2)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, float64(2), lines[0]["attempt"])
}

func TestStructuredLogger_LogErrorWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "info").WithRequestID("req-42")

	log.LogError(context.Background(), "Transfer submission failed", errors.New("timeout"))
	log.LogError(context.Background(), "nil error", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-42", lines[0]["request_id"])
	assert.Equal(t, "timeout", lines[0]["error"])
	assert.Equal(t, "<nil>", lines[1]["error"])
}

func TestStructuredLogger_RedactsSeedPhrase(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "info")

	req := entity.TransferRequest{
		TransferAmount:    "500",
		SenderSeedPhrase:  "very secret words",
		ReceiverAccountID: "olena.near",
	}
	log.LogInfo(context.Background(), "Dispatching transfer", "request", req)

	assert.NotContains(t, buf.String(), "very secret words")
	assert.Contains(t, buf.String(), "olena.near")
}
