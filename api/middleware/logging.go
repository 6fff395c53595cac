package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trilytx/trilytx-backend/utils"
)

type config struct {
	logger     *slog.Logger
	ignorePath map[string]struct{}
	ipHashSalt string
	errorsOnly bool
}

type LoggerOption func(*config)

func WithIgnorePath(paths []string) LoggerOption {
	return func(c *config) {
		for _, path := range paths {
			c.ignorePath[path] = struct{}{}
		}
	}
}

// WithIpHashSalt salts the hash logged in place of the client ip.
func WithIpHashSalt(salt string) LoggerOption {
	return func(c *config) {
		c.ipHashSalt = salt
	}
}

// WithRequestLoggingLevel "errors" only logs requests answered with a 4xx or 5xx status, "all" logs every request.
func WithRequestLoggingLevel(level string) LoggerOption {
	return func(c *config) {
		c.errorsOnly = level == "errors"
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLogging writes one access log line per request, after the handler chain ran.
func NewLogging(logger *slog.Logger, options ...LoggerOption) gin.HandlerFunc {
	l := &config{
		logger:     logger,
		ignorePath: map[string]struct{}{},
	}
	for _, option := range options {
		option(l)
	}

	return func(c *gin.Context) {
		if _, ok := l.ignorePath[c.Request.URL.Path]; ok {
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if l.errorsOnly && status < http.StatusBadRequest {
			return
		}

		ctx := c.Request.Context()
		attributes := []slog.Attr{
			slog.Int("status", status),
			slog.Int64("latency", time.Since(start).Milliseconds()),
			slog.String("client_ip_hash", utils.HashIp(c.ClientIP(), l.ipHashSalt)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("data_length", max(c.Writer.Size(), 0)),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		if route := c.FullPath(); route != "" {
			attributes = append(attributes, slog.String("route", route))
		}
		if sessionId := c.Param("session_id"); sessionId != "" {
			attributes = append(attributes, slog.String("session_id", sessionId))
		}
		if userId := utils.UserIdFromCtx(ctx); userId != "" {
			attributes = append(attributes, slog.String("user_id", userId))
		}
		if len(c.Errors) > 0 {
			attributes = append(attributes, slog.String("error", c.Errors.String()))
		}

		l.logger.LogAttrs(ctx, statusLevel(status), c.Request.Method+" "+c.Request.URL.Path, attributes...)
	}
}
