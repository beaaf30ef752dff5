package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instrument names.
const (
	MetricParseDuration = "odata.parse.duration"
	MetricParseCount    = "odata.parse.count"
	MetricErrorCount    = "odata.parse.error.count"
	MetricCacheHits     = "odata.parse.cache.hits"
)

var noopMeterProvider metric.MeterProvider = noop.NewMeterProvider()

// Metrics holds the parse metric instruments.
type Metrics struct {
	parseDuration metric.Float64Histogram
	parseCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	cacheHits     metric.Int64Counter
}

// NewMetrics creates the parse instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(MeterName)
	m := &Metrics{}
	var err error

	if m.parseDuration, err = meter.Float64Histogram(MetricParseDuration,
		metric.WithDescription("Duration of query string parses in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricParseDuration, err)
	}

	if m.parseCount, err = meter.Int64Counter(MetricParseCount,
		metric.WithDescription("Total number of query string parses"),
		metric.WithUnit("{parse}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricParseCount, err)
	}

	if m.errorCount, err = meter.Int64Counter(MetricErrorCount,
		metric.WithDescription("Parses that reported an error, by outcome and option"),
		metric.WithUnit("{parse}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricErrorCount, err)
	}

	if m.cacheHits, err = meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Parses answered from the result cache"),
		metric.WithUnit("{parse}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricCacheHits, err)
	}

	return m, nil
}

// NewNoopMetrics returns instruments that record nothing.
func NewNoopMetrics() *Metrics {
	// the noop meter never fails
	m, _ := NewMetrics(noopMeterProvider)
	return m
}

// RecordParse records one completed parse.
func (m *Metrics) RecordParse(ctx context.Context, outcome, failedOption string, duration time.Duration) {
	attrs := metric.WithAttributes(OutcomeAttr(outcome))
	m.parseDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.parseCount.Add(ctx, 1, attrs)
	if outcome != OutcomeOK {
		m.errorCount.Add(ctx, 1, metric.WithAttributes(
			OutcomeAttr(outcome),
			attribute.String(AttrFailedOption, failedOption),
		))
	}
}

// RecordCacheHit records a parse answered from the result cache.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}
