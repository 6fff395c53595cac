package infra

import (
	"context"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"google.golang.org/api/option"

	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DEFAULT_SAMPLING_RATE = 0.3

type TelemetryRessources struct {
	TracerProvider    trace.TracerProvider
	Tracer            trace.Tracer
	TextMapPropagator propagation.TextMapPropagator
	// Shutdown flushes pending spans. Never nil.
	Shutdown func(context.Context) error
}

func NoopTelemetry() TelemetryRessources {
	return TelemetryRessources{
		TracerProvider:    noop.NewTracerProvider(),
		Tracer:            noop.NewTracerProvider().Tracer(""),
		TextMapPropagator: propagation.NewCompositeTextMapPropagator(),
		Shutdown:          func(context.Context) error { return nil },
	}
}

// ParseSamplingMap reads "name=ratio" pairs separated by commas. Keys starting
// with "/" are http route prefixes, everything else is a span name.
func ParseSamplingMap(value string) (TelemetrySamplingMap, error) {
	out := TelemetrySamplingMap{
		HttpRoutes: map[string]float64{},
		SpanNames:  map[string]float64{},
	}
	for pair := range strings.SplitSeq(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return out, errors.Newf("invalid sampling entry %q, expected name=ratio", pair)
		}
		ratio, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return out, errors.Newf("invalid sampling ratio in %q", pair)
		}
		key = strings.TrimSpace(key)
		if strings.HasPrefix(key, "/") {
			out.HttpRoutes[key] = ratio
		} else {
			out.SpanNames[key] = ratio
		}
	}
	return out, nil
}

func newSpanExporter(ctx context.Context, configuration TelemetryConfiguration) (sdktrace.SpanExporter, error) {
	if configuration.Exporter == "gcp" {
		// An empty project id makes the exporter ask the metadata server.
		exporter, err := texporter.New(
			texporter.WithProjectID(configuration.ProjectID),
			texporter.WithTraceClientOptions([]option.ClientOption{option.WithTelemetryDisabled()}),
		)
		return exporter, errors.Wrap(err, "could not create the cloud trace exporter")
	}

	exporter, err := otlptracegrpc.New(ctx)
	return exporter, errors.Wrap(err, "could not create the otlp exporter")
}

func InitTelemetry(ctx context.Context, configuration TelemetryConfiguration, apiVersion string) (TelemetryRessources, error) {
	if !configuration.Enabled {
		return NoopTelemetry(), nil
	}

	exporter, err := newSpanExporter(ctx, configuration)
	if err != nil {
		return TelemetryRessources{}, err
	}

	res, err := resource.New(ctx,
		resource.WithDetectors(gcp.NewDetector()),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(configuration.ApplicationName),
			semconv.ServiceVersion(apiVersion),
		),
	)
	if err != nil {
		return TelemetryRessources{}, errors.Wrap(err, "could not create the telemetry resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(ChatbotSampler{SamplingMap: configuration.SamplingMap}),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	propagators := propagation.NewCompositeTextMapPropagator(
		gcppropagator.CloudTraceFormatPropagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(propagators)

	return TelemetryRessources{
		TracerProvider:    tp,
		Tracer:            tp.Tracer(configuration.ApplicationName),
		TextMapPropagator: propagators,
		Shutdown:          tp.Shutdown,
	}, nil
}

var (
	// Every step of a question is kept so that a failed answer can be replayed from its trace.
	defaultSpanNamesSampling = map[string]float64{
		"chatbot.ask_question":  1.0,
		"chatbot.attempt":       1.0,
		"chatbot.select_tables": 1.0,
		"chatbot.generate_sql":  1.0,
		"chatbot.run_query":     1.0,
		"chatbot.summarize":     1.0,
		"catalog.table_schema":  0.1,
	}

	defaultRoutePrefixSampling = map[string]float64{
		"/health":         0.0,
		"/liveness":       0.0,
		"/metrics":        0.0,
		"/catalog":        0.1,
		"/chat/questions": 1.0,
		"/chat/sessions":  0.2,
	}
)

// ChatbotSampler picks a ratio from the http route, the warehouse query text
// or the span name, then samples deterministically on the trace id.
type ChatbotSampler struct {
	SamplingMap TelemetrySamplingMap
}

func (ChatbotSampler) Description() string {
	return "chatbot-sampler"
}

func prefixRatio(value string, maps ...map[string]float64) (float64, bool) {
	for _, m := range maps {
		for prefix, ratio := range m {
			if strings.HasPrefix(value, prefix) {
				return ratio, true
			}
		}
	}
	return 0, false
}

func stringAttribute(attrs []attribute.KeyValue, key attribute.Key) (string, bool) {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func (s ChatbotSampler) ratio(p sdktrace.SamplingParameters, parent trace.SpanContext) float64 {
	if route, ok := stringAttribute(p.Attributes, semconv.HTTPRouteKey); ok {
		if ratio, ok := prefixRatio(route, s.SamplingMap.HttpRoutes, defaultRoutePrefixSampling); ok {
			return ratio
		}
		return DEFAULT_SAMPLING_RATE
	}

	if query, ok := stringAttribute(p.Attributes, semconv.DBQueryTextKey); ok {
		// Dry runs only validate generated SQL.
		if strings.HasPrefix(query, "EXPLAIN ") {
			return 0
		}
		if parent.IsSampled() {
			return 1
		}
		return DEFAULT_SAMPLING_RATE
	}

	if ratio, ok := s.SamplingMap.SpanNames[p.Name]; ok {
		return ratio
	}
	if ratio, ok := defaultSpanNamesSampling[p.Name]; ok {
		return ratio
	}
	return 1
}

func (s ChatbotSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	parent := trace.SpanContextFromContext(p.ParentContext)

	// Children of a dropped span are dropped too. Root spans have no trace id yet.
	if parent.HasTraceID() && !parent.IsSampled() {
		return sdktrace.NeverSample().ShouldSample(p)
	}

	decision := sdktrace.Drop
	threshold := s.ratio(p, parent) * float64(math.MaxUint64)
	if float64(binary.BigEndian.Uint64(p.TraceID[:8])) < threshold {
		decision = sdktrace.RecordAndSample
	}

	return sdktrace.SamplingResult{
		Decision:   decision,
		Attributes: p.Attributes,
		Tracestate: parent.TraceState(),
	}
}
