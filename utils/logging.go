package utils

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// NewLogger builds the process logger. "json" targets Cloud Logging, "test"
// is plain logfmt and anything else is the colored local format.
func NewLogger(format string, level slog.Level) *slog.Logger {
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: GCPLoggerAttributeReplacer,
		}))
	case "test":
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(NewLocalDevHandler(os.Stderr, level, true))
	}
}

var gcpSeverities = []struct {
	below    slog.Level
	severity string
}{
	{slog.LevelInfo, "DEBUG"},
	{slog.LevelWarn, "INFO"},
	{slog.LevelError, "WARNING"},
}

// GCPLoggerAttributeReplacer renames the slog keys so that Cloud Logging recognizes
// the message and the severity of json log lines.
func GCPLoggerAttributeReplacer(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.LevelKey:
		a.Key = "severity"
		level, _ := a.Value.Any().(slog.Level)
		a.Value = slog.StringValue("ERROR")
		for _, s := range gcpSeverities {
			if level < s.below {
				a.Value = slog.StringValue(s.severity)
				break
			}
		}
	}
	return a
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LocalDevHandler prints "time level message" followed by the attributes in logfmt.
// Clones share the writer lock so that lines never interleave.
type LocalDevHandler struct {
	attrs   slog.Handler
	colored bool
	mu      *sync.Mutex
	out     io.Writer
}

func NewLocalDevHandler(w io.Writer, level slog.Level, colored bool) *LocalDevHandler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey, slog.LevelKey, slog.MessageKey:
				return slog.Attr{}
			}
			return a
		},
	}
	return &LocalDevHandler{
		attrs:   slog.NewTextHandler(w, opts),
		colored: colored,
		mu:      &sync.Mutex{},
		out:     w,
	}
}

func (h *LocalDevHandler) clone(attrs slog.Handler) *LocalDevHandler {
	c := *h
	c.attrs = attrs
	return &c
}

func (h *LocalDevHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.attrs.Enabled(ctx, level)
}

func (h *LocalDevHandler) Handle(ctx context.Context, r slog.Record) error {
	var prefix bytes.Buffer
	prefix.WriteString(r.Time.Format(time.TimeOnly))
	prefix.WriteByte(' ')
	prefix.WriteString(h.levelLabel(r.Level))
	prefix.WriteByte(' ')
	prefix.WriteString(r.Message)
	prefix.WriteByte(' ')

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.out.Write(prefix.Bytes()); err != nil {
		return err
	}
	return h.attrs.Handle(ctx, r)
}

func (h *LocalDevHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.clone(h.attrs.WithAttrs(attrs))
}

func (h *LocalDevHandler) WithGroup(name string) slog.Handler {
	return h.clone(h.attrs.WithGroup(name))
}

// ansi foreground codes
const (
	ansiRed     = "31"
	ansiYellow  = "33"
	ansiBlue    = "34"
	ansiMagenta = "35"
)

func (h *LocalDevHandler) levelLabel(level slog.Level) string {
	label := level.String()
	if !h.colored {
		return label
	}
	code := ansiRed
	switch {
	case level < slog.LevelInfo:
		code = ansiMagenta
	case level < slog.LevelWarn:
		code = ansiBlue
	case level < slog.LevelError:
		code = ansiYellow
	}
	return "\x1b[" + code + "m" + label + "\x1b[0m"
}
