package utils

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCPLoggerAttributeReplacer(t *testing.T) {
	msg := GCPLoggerAttributeReplacer(nil, slog.String(slog.MessageKey, "hello"))
	assert.Equal(t, "message", msg.Key)

	tests := map[slog.Level]string{
		slog.LevelDebug: "DEBUG",
		slog.LevelInfo:  "INFO",
		slog.LevelWarn:  "WARNING",
		slog.LevelError: "ERROR",
	}
	for level, expected := range tests {
		attr := GCPLoggerAttributeReplacer(nil, slog.Any(slog.LevelKey, level))
		assert.Equal(t, "severity", attr.Key)
		assert.Equal(t, expected, attr.Value.String())
	}
}

func TestLocalDevHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLocalDevHandler(&buf, slog.LevelInfo, false)).With("session_id", "abc")

	logger.InfoContext(context.Background(), "question answered", "attempts", 2)

	line := buf.String()
	assert.Contains(t, line, "INFO question answered")
	assert.Contains(t, line, "session_id=abc")
	assert.Contains(t, line, "attempts=2")
	assert.NotContains(t, line, "msg=")

	buf.Reset()
	logger.DebugContext(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("unknown"))
}
