package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trilytx/trilytx-backend/models"
)

type validator interface {
	Validate(ctx context.Context, token string) (models.Credentials, error)
}

// Authentication resolves the caller from a bearer token. Without a validator, every caller is anonymous.
type Authentication struct {
	Validator validator
}

func (a *Authentication) Middleware(c *gin.Context) {
	ctx := c.Request.Context()
	if a.Validator == nil {
		c.Request = c.Request.WithContext(StoreCredentialsInContext(ctx, models.Credentials{}))
		c.Next()
		return
	}

	token, err := ParseAuthorizationBearerHeader(c.Request.Header)
	if err != nil {
		_ = c.Error(fmt.Errorf("could not parse authorization header: %w", err))
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if token == "" {
		_ = c.Error(fmt.Errorf("missing bearer token: %w", models.UnAuthorizedError))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	credentials, err := a.Validator.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, models.UnAuthorizedError) {
			_ = c.Error(fmt.Errorf("validator.Validate error: %w", err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		LogAndReportSentryError(ctx, err)
		LoggerFromContext(ctx).ErrorContext(ctx, "errors while validating token", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	newContext := StoreCredentialsInContext(ctx, credentials)
	logger := LoggerFromContext(newContext).With(slog.String("UserId", credentials.UserId))
	c.Request = c.Request.WithContext(StoreLoggerInContext(newContext, logger))
	c.Next()
}

func NewAuthentication(validator validator) Authentication {
	return Authentication{
		Validator: validator,
	}
}

func ParseAuthorizationBearerHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if authorization == "" {
		return "", nil
	}

	authHeader := strings.Split(authorization, "Bearer ")
	if len(authHeader) != 2 {
		return "", fmt.Errorf("malformed token: %w", models.UnAuthorizedError)
	}
	return authHeader[1], nil
}
