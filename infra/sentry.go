package infra

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

var sentryRouteSampling = map[string]float64{
	"GET /liveness":        0,
	"GET /health":          0,
	"GET /metrics":         0,
	"POST /chat/questions": 0.5,
}

func sentryTracesSampler(ctx sentry.SamplingContext) float64 {
	if rate, ok := sentryRouteSampling[ctx.Span.Name]; ok {
		return rate
	}
	return 0.2
}

// scrubSentryEvent drops credentials from the captured request and names the
// event after its root cause instead of the outermost wrapper.
func scrubSentryEvent(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil {
		return nil
	}
	if event.Request != nil {
		for name := range event.Request.Headers {
			if strings.EqualFold(name, "Authorization") || strings.EqualFold(name, "Cookie") {
				event.Request.Headers[name] = "[redacted]"
			}
		}
	}
	if hint != nil && hint.OriginalException != nil && len(event.Exception) > 0 {
		event.Exception[len(event.Exception)-1].Type = errors.UnwrapAll(hint.OriginalException).Error()
	}
	return event
}

// SetupSentry initialises the global hub. An empty dsn leaves reporting disabled.
func SetupSentry(dsn, env, apiVersion string) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:           dsn,
		EnableTracing: true,
		Release:       apiVersion,
		Environment:   env,
		TracesSampler: sentryTracesSampler,
		BeforeSend:    scrubSentryEvent,
	})
	return errors.Wrap(err, "could not initialise sentry")
}
