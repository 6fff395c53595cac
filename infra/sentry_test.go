package infra

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
)

func TestScrubSentryEvent(t *testing.T) {
	root := errors.New("bigquery: quota exceeded")
	event := &sentry.Event{
		Request: &sentry.Request{Headers: map[string]string{
			"authorization": "Bearer secret",
			"Content-Type":  "application/json",
		}},
		Exception: []sentry.Exception{{Type: "*errors.withStack"}},
	}

	out := scrubSentryEvent(event, &sentry.EventHint{OriginalException: errors.Wrap(root, "run query")})

	assert.Equal(t, "[redacted]", out.Request.Headers["authorization"])
	assert.Equal(t, "application/json", out.Request.Headers["Content-Type"])
	assert.Equal(t, "bigquery: quota exceeded", out.Exception[0].Type)
}

func TestSentryTracesSampler(t *testing.T) {
	rate := func(name string) float64 {
		return sentryTracesSampler(sentry.SamplingContext{Span: &sentry.Span{Name: name}})
	}
	assert.Equal(t, 0.0, rate("GET /health"))
	assert.Equal(t, 0.5, rate("POST /chat/questions"))
	assert.Equal(t, 0.2, rate("GET /catalog/tables"))
}
