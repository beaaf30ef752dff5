// Package observability provides OpenTelemetry-based instrumentation for query parsing.
//
// It supports distributed tracing, metrics collection, Server-Timing metrics
// and trace-aware structured logging.
//
// All observability features are opt-in. When not configured, no-op implementations
// are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/go-odata-query"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/go-odata-query"
)

// Query option attribute keys following OpenTelemetry conventions.
const (
	AttrQueryLength      = "odata.query.length"
	AttrQueryFilter      = "odata.query.filter"
	AttrQueryExpand      = "odata.query.expand"
	AttrQuerySelect      = "odata.query.select"
	AttrQueryOrderBy     = "odata.query.orderby"
	AttrQueryTop         = "odata.query.top"
	AttrQuerySkip        = "odata.query.skip"
	AttrQueryInlineCount = "odata.query.inlinecount"
	AttrQueryFormat      = "odata.query.format"

	AttrParseOutcome = "odata.parse.outcome"
	AttrFailedOption = "odata.parse.failed_option"
	AttrCacheHit     = "odata.parse.cache_hit"
)

// Parse outcomes recorded on spans and metrics.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidOption = "invalid_option"
	OutcomeSyntaxError   = "syntax_error"
)

// Log field names used when enriching loggers with trace context.
const (
	LogFieldTraceID = "trace_id"
	LogFieldSpanID  = "span_id"
)

var queryOptionKeys = map[string]string{
	"$filter":      AttrQueryFilter,
	"$expand":      AttrQueryExpand,
	"$select":      AttrQuerySelect,
	"$orderby":     AttrQueryOrderBy,
	"$top":         AttrQueryTop,
	"$skip":        AttrQuerySkip,
	"$inlinecount": AttrQueryInlineCount,
	"$format":      AttrQueryFormat,
}

// QueryOptionAttr returns the span attribute for a raw query option value.
// The second result is false for options without a dedicated attribute key.
func QueryOptionAttr(option, value string) (attribute.KeyValue, bool) {
	key, ok := queryOptionKeys[option]
	if !ok {
		return attribute.KeyValue{}, false
	}
	return attribute.String(key, value), true
}

// OutcomeAttr creates a parse outcome attribute.
func OutcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String(AttrParseOutcome, outcome)
}

// FailedOptionAttr creates an attribute naming the option that failed.
func FailedOptionAttr(option string) attribute.KeyValue {
	return attribute.String(AttrFailedOption, option)
}

// CacheHitAttr marks a parse answered from the result cache.
func CacheHitAttr() attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, true)
}
