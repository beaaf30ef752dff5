package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("expected default service name, got '%s'", cfg.ServiceName)
	}
	if cfg.Enabled() {
		t.Error("expected observability to be disabled without providers")
	}
	if cfg.ServerTimingEnabled() {
		t.Error("expected server timing to be disabled")
	}
}

func TestConfigInitialize(t *testing.T) {
	cfg := NewConfig()
	cfg.TracerProvider = tracenoop.NewTracerProvider()
	cfg.MeterProvider = noop.NewMeterProvider()
	cfg.ServiceName = ""
	cfg.ServerTiming = true

	if err := cfg.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Enabled() {
		t.Error("expected observability to be enabled")
	}
	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("expected empty service name to be defaulted, got '%s'", cfg.ServiceName)
	}
	if cfg.Tracer() == nil || cfg.Metrics() == nil {
		t.Error("expected tracer and metrics to be initialized")
	}
	if !cfg.ServerTimingEnabled() {
		t.Error("expected server timing to be enabled")
	}
}

func TestNilConfigFallsBackToNoop(t *testing.T) {
	var cfg *Config
	if cfg.Tracer() == nil || cfg.Metrics() == nil {
		t.Fatal("expected no-op instruments from nil config")
	}
	if cfg.Enabled() || cfg.ServerTimingEnabled() {
		t.Error("expected nil config to report everything disabled")
	}
}

func TestTracerParseSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := NewTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)), "test")

	_, span := tracer.StartParse(context.Background(), "$top=1")
	tracer.AddQueryOptions(span, map[string]string{"$top": "1", "custom": "x"})
	tracer.EndParse(span, OutcomeSyntaxError, "$filter", errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		got[kv.Key] = kv.Value
	}
	if got[AttrQueryLength].AsInt64() != 6 {
		t.Errorf("expected query length 6, got %v", got[AttrQueryLength])
	}
	if got[AttrQueryTop].AsString() != "1" {
		t.Errorf("expected $top attribute, got %v", got[AttrQueryTop])
	}
	if got[AttrParseOutcome].AsString() != OutcomeSyntaxError {
		t.Errorf("unexpected outcome %v", got[AttrParseOutcome])
	}
	if got[AttrFailedOption].AsString() != "$filter" {
		t.Errorf("unexpected failed option %v", got[AttrFailedOption])
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
}

func TestNoopTracerSpan(t *testing.T) {
	tracer := NewNoopTracer()
	_, span := tracer.StartParse(context.Background(), "")
	tracer.EndParse(span, OutcomeOK, "", nil)
	span.End()
	if span.IsRecording() {
		t.Error("expected no-op span not to record")
	}
}

func TestMetricsRecordParse(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.RecordParse(context.Background(), OutcomeOK, "", time.Millisecond)
	m.RecordParse(context.Background(), OutcomeInvalidOption, "$top", time.Millisecond)
	m.RecordCacheHit(context.Background())

	NewNoopMetrics().RecordCacheHit(context.Background())
}

func TestQueryOptionAttr(t *testing.T) {
	attr, ok := QueryOptionAttr("$filter", "Name eq 'x'")
	if !ok {
		t.Fatal("expected attribute for $filter")
	}
	if string(attr.Key) != AttrQueryFilter || attr.Value.AsString() != "Name eq 'x'" {
		t.Errorf("unexpected attribute %v", attr)
	}
	if _, ok := QueryOptionAttr("$unknown", "x"); ok {
		t.Error("expected no attribute for unknown option")
	}
}

func TestStartServerTimingWithoutHeader(t *testing.T) {
	stop := StartServerTiming(context.Background(), ServerTimingParse, "")
	stop()
}

func TestStartServerTimingWithHeader(t *testing.T) {
	var recorded int
	handler := servertiming.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stop := StartServerTiming(r.Context(), ServerTimingParse, "query parse")
		stop()
		recorded = len(servertiming.FromContext(r.Context()).Metrics)
		w.WriteHeader(http.StatusNoContent)
	}), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?$top=1", nil))

	if recorded != 1 {
		t.Fatalf("expected 1 server timing metric, got %d", recorded)
	}
	if !strings.Contains(rec.Header().Get(servertiming.HeaderKey), ServerTimingParse) {
		t.Errorf("expected Server-Timing header to name %s, got %q", ServerTimingParse, rec.Header().Get(servertiming.HeaderKey))
	}
}

func TestLoggerWithTraceWithoutSpan(t *testing.T) {
	logger := slog.Default()
	if got := LoggerWithTrace(context.Background(), logger); got != logger {
		t.Error("expected logger to be returned unchanged without a valid span")
	}
}

func TestLoggerWithTraceAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	LoggerWithTrace(ctx, logger).Info("hello")

	out := buf.String()
	if !strings.Contains(out, LogFieldTraceID+"="+span.SpanContext().TraceID().String()) {
		t.Errorf("expected trace id in log output, got %q", out)
	}
	if !strings.Contains(out, LogFieldSpanID+"=") {
		t.Errorf("expected span id in log output, got %q", out)
	}
}
