package odata

import (
	"log/slog"

	"github.com/nlstn/go-odata-query/internal/observability"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type config struct {
	logger      *slog.Logger
	obsConfig   *observability.Config
	cacheSize   int
	strictArity bool
}

// Option configures a Parser.
type Option func(*config)

// WithLogger sets the logger used for debug output. A nil logger keeps
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracerProvider enables tracing. Each parse records an "odata.parse" span.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.obsConfig.TracerProvider = tp
	}
}

// WithMeterProvider enables parse duration, count and error metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.obsConfig.MeterProvider = mp
	}
}

// WithServiceName sets the service name attached to traces.
func WithServiceName(name string) Option {
	return func(c *config) {
		c.obsConfig.ServiceName = name
	}
}

// WithQueryOptionTracing records the raw option values as span attributes.
// Values may contain user data; enable with care.
func WithQueryOptionTracing() Option {
	return func(c *config) {
		c.obsConfig.QueryOptionTracing = true
	}
}

// WithServerTiming adds an "odata-parse" Server-Timing metric to requests
// parsed with ParseRequest. The request context must carry timing data, as
// set up by servertiming.Middleware.
func WithServerTiming() Option {
	return func(c *config) {
		c.obsConfig.ServerTiming = true
	}
}

// WithStrictArity rejects $filter function calls whose argument count does
// not match the function catalogue.
func WithStrictArity() Option {
	return func(c *config) {
		c.strictArity = true
	}
}

// WithCache memoizes up to size parse outcomes keyed by the raw query string.
// Zero disables the cache; a negative size makes NewParser fail.
func WithCache(size int) Option {
	return func(c *config) {
		c.cacheSize = size
	}
}
