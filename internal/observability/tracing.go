package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var noopTracerProvider trace.TracerProvider = tracenoop.NewTracerProvider()

// Tracer wraps an OpenTelemetry tracer with parse-specific span creation methods.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer using the given TracerProvider. The service
// name is attached to the instrumentation scope.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer: tp.Tracer(TracerName,
			trace.WithInstrumentationAttributes(attribute.String("service.name", serviceName))),
	}
}

// NewNoopTracer returns a tracer whose spans record nothing.
func NewNoopTracer() *Tracer {
	return NewTracer(noopTracerProvider, DefaultServiceName)
}

// StartParse starts a span covering one query string parse.
func (t *Tracer) StartParse(ctx context.Context, rawQuery string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "odata.parse", trace.WithAttributes(
		attribute.Int(AttrQueryLength, len(rawQuery)),
	))
}

// EndParse records the outcome of a parse on span. failedOption is empty on success.
func (t *Tracer) EndParse(span trace.Span, outcome, failedOption string, err error) {
	attrs := []attribute.KeyValue{OutcomeAttr(outcome)}
	if failedOption != "" {
		attrs = append(attrs, FailedOptionAttr(failedOption))
	}
	span.SetAttributes(attrs...)
	t.RecordError(span, err)
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddQueryOptions adds raw query option attributes to a span.
func (t *Tracer) AddQueryOptions(span trace.Span, options map[string]string) {
	var attrs []attribute.KeyValue
	for name, value := range options {
		if attr, ok := QueryOptionAttr(name, value); ok {
			attrs = append(attrs, attr)
		}
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
