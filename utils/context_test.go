package utils

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/trilytx/trilytx-backend/models"
)

func TestContextFallbacks(t *testing.T) {
	ctx := context.Background()

	assert.Same(t, slog.Default(), LoggerFromContext(ctx))
	assert.NotNil(t, OpenTelemetryTracerFromContext(ctx))
	assert.Equal(t, "", UserIdFromCtx(ctx))
	_, ok := CredentialsFromCtx(ctx)
	assert.False(t, ok)
}

func TestStoreInContextMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewLogger("test", slog.LevelDebug)

	var seen *slog.Logger
	r := gin.New()
	r.Use(StoreLoggerInContextMiddleware(logger))
	r.GET("/", func(c *gin.Context) {
		seen = LoggerFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Same(t, logger, seen)
}

func TestUserIdFromCtx(t *testing.T) {
	ctx := StoreCredentialsInContext(context.Background(), models.Credentials{UserId: "user-1", Email: "a@b.c"})

	assert.Equal(t, "user-1", UserIdFromCtx(ctx))
	creds, ok := CredentialsFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", creds.Email)
}
