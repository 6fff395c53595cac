package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
)

// LogAndReportSentryError logs the error with its stack and sends it to sentry, except for
// cancelled or timed out requests which are only logged.
func LogAndReportSentryError(ctx context.Context, err error) {
	logger := LoggerFromContext(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.WarnContext(ctx, fmt.Sprintf("request aborted: %v", err))
		return
	}
	logger.ErrorContext(ctx, fmt.Sprintf("%+v", err))

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if userId := UserIdFromCtx(ctx); userId != "" {
			scope.SetUser(sentry.User{ID: userId})
		}
		hub.CaptureException(err)
	})
}
