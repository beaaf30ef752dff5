package observability

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultServiceName identifies parsers that were not given a service name.
const DefaultServiceName = "odata-query"

// Config selects which instruments a parser records. A nil provider leaves
// that signal on a no-op implementation.
type Config struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	ServiceName    string

	// QueryOptionTracing copies raw option values onto the parse span.
	QueryOptionTracing bool
	// ServerTiming adds a Server-Timing metric to request parses.
	ServerTiming bool

	tracer  *Tracer
	metrics *Metrics
}

// NewConfig returns a configuration with every signal disabled.
func NewConfig() *Config {
	return &Config{ServiceName: DefaultServiceName}
}

// Initialize builds the tracer and metric instruments. It must be called
// once all fields are set.
func (c *Config) Initialize() error {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}

	tp := c.TracerProvider
	if tp == nil {
		tp = noopTracerProvider
	}
	c.tracer = NewTracer(tp, c.ServiceName)

	mp := c.MeterProvider
	if mp == nil {
		mp = noopMeterProvider
	}
	metrics, err := NewMetrics(mp)
	if err != nil {
		return err
	}
	c.metrics = metrics
	return nil
}

// Tracer returns the configured tracer. Uninitialized or nil configs get a
// no-op tracer.
func (c *Config) Tracer() *Tracer {
	if c == nil || c.tracer == nil {
		return NewNoopTracer()
	}
	return c.tracer
}

// Metrics returns the configured instruments, or no-op ones.
func (c *Config) Metrics() *Metrics {
	if c == nil || c.metrics == nil {
		return NewNoopMetrics()
	}
	return c.metrics
}

// Enabled reports whether a real tracer or meter provider is set.
func (c *Config) Enabled() bool {
	return c != nil && (c.TracerProvider != nil || c.MeterProvider != nil)
}

// ServerTimingEnabled reports whether request parses record Server-Timing.
func (c *Config) ServerTimingEnabled() bool {
	return c != nil && c.ServerTiming
}
