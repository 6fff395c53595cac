package utils

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/trilytx/trilytx-backend/models"
)

type contextKey int

const (
	contextKeyCredentials contextKey = iota
	contextKeyLogger
	contextKeyTracer
)

var noopTracer = noop.NewTracerProvider().Tracer("")

func valueFromContext[T any](ctx context.Context, key contextKey, fallback T) T {
	if value, ok := ctx.Value(key).(T); ok {
		return value
	}
	return fallback
}

// withRequestValue returns a gin middleware storing value under key in the request context.
func withRequestValue(key contextKey, value any) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), key, value))
		c.Next()
	}
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	return valueFromContext(ctx, contextKeyLogger, slog.Default())
}

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

func StoreLoggerInContextMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return withRequestValue(contextKeyLogger, logger)
}

// OpenTelemetryTracerFromContext falls back to a noop tracer so that usecases can open spans in tests and CLI runs.
func OpenTelemetryTracerFromContext(ctx context.Context) trace.Tracer {
	return valueFromContext(ctx, contextKeyTracer, noopTracer)
}

func StoreOpenTelemetryTracerInContext(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, contextKeyTracer, tracer)
}

func StoreOpenTelemetryTracerInContextMiddleware(tracer trace.Tracer) gin.HandlerFunc {
	return withRequestValue(contextKeyTracer, tracer)
}

func CredentialsFromCtx(ctx context.Context) (models.Credentials, bool) {
	creds, ok := ctx.Value(contextKeyCredentials).(models.Credentials)
	return creds, ok
}

// UserIdFromCtx returns an empty string for anonymous callers.
func UserIdFromCtx(ctx context.Context) string {
	return valueFromContext(ctx, contextKeyCredentials, models.Credentials{}).UserId
}

func StoreCredentialsInContext(ctx context.Context, creds models.Credentials) context.Context {
	return context.WithValue(ctx, contextKeyCredentials, creds)
}
