// Package odata parses OData URI query strings ($top, $skip, $select,
// $orderby, $expand, $inlinecount, $format and $filter) into typed values and
// a $filter abstract syntax tree that query-execution code can consume
// without re-parsing text.
package odata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nlstn/go-odata-query/internal/observability"
	"github.com/nlstn/go-odata-query/internal/query"
	"go.opentelemetry.io/otel/trace"
)

// Parser parses query strings. It holds configuration only; every call
// builds its own tokenizer and AST, so a Parser is safe for concurrent use.
type Parser struct {
	cfg *query.Config
	obs *observability.Config
	// decoded and encoded input parse differently, so each gets its own cache
	decodedCache *query.ResultCache
	encodedCache *query.ResultCache
	logger       *slog.Logger
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) (*Parser, error) {
	cfg := &config{
		logger:    slog.Default(),
		obsConfig: observability.NewConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.cacheSize < 0 {
		return nil, fmt.Errorf("odata: cache size must not be negative, got %d", cfg.cacheSize)
	}
	if err := cfg.obsConfig.Initialize(); err != nil {
		return nil, fmt.Errorf("odata: failed to initialize observability: %w", err)
	}

	p := &Parser{
		cfg: &query.Config{
			StrictArity: cfg.strictArity,
			Logger:      cfg.logger,
		},
		obs:    cfg.obsConfig,
		logger: cfg.logger,
	}
	if cfg.cacheSize > 0 {
		p.decodedCache = query.NewResultCache(cfg.cacheSize)
		p.encodedCache = query.NewResultCache(cfg.cacheSize)
	}
	return p, nil
}

// Parse parses an already URL-decoded query string with default settings.
//
// Invalid option values ($top=foo, $inlinecount=test, ...) are reported in
// Result.Error and never as the returned error. A $filter value that does not
// conform to the grammar is returned as a *SyntaxError; Result.Error is set
// as well and the options parsed before it are kept.
func Parse(rawQuery string) (*Result, error) {
	return query.ParseQuery(rawQuery, nil)
}

// Parse parses an already URL-decoded query string.
func (p *Parser) Parse(rawQuery string) (*Result, error) {
	return p.ParseContext(context.Background(), rawQuery)
}

// ParseContext parses an already URL-decoded query string, recording a trace
// span and metrics against ctx.
func (p *Parser) ParseContext(ctx context.Context, rawQuery string) (*Result, error) {
	return p.run(ctx, rawQuery, query.ParseQuery, p.decodedCache)
}

// ParseEncoded parses a URL-encoded query string, as found in
// http.Request.URL.RawQuery.
func (p *Parser) ParseEncoded(ctx context.Context, rawQuery string) (*Result, error) {
	return p.run(ctx, rawQuery, query.ParseEncodedQuery, p.encodedCache)
}

func (p *Parser) run(ctx context.Context, rawQuery string, parse func(string, *query.Config) (*Result, error), cache *query.ResultCache) (*Result, error) {
	start := time.Now()
	tracer := p.obs.Tracer()
	ctx, span := tracer.StartParse(ctx, rawQuery)
	defer span.End()

	if p.obs.QueryOptionTracing {
		tracer.AddQueryOptions(span, rawOptions(rawQuery))
	}

	if cache != nil {
		if cached, ok := cache.Get(rawQuery); ok {
			span.SetAttributes(observability.CacheHitAttr())
			p.obs.Metrics().RecordCacheHit(ctx)
			p.finish(ctx, span, cached.Result, cached.Err, start)
			return cached.Result, cached.Err
		}
	}

	result, err := parse(rawQuery, p.cfg)
	if cache != nil {
		cache.Put(rawQuery, query.Outcome{Result: result, Err: err})
	}
	p.finish(ctx, span, result, err, start)
	return result, err
}

func (p *Parser) finish(ctx context.Context, span trace.Span, result *Result, err error, start time.Time) {
	outcome := observability.OutcomeOK
	switch {
	case err != nil:
		outcome = observability.OutcomeSyntaxError
	case result.Error != "":
		outcome = observability.OutcomeInvalidOption
	}

	failed := string(result.FailedOption)
	p.obs.Tracer().EndParse(span, outcome, failed, result.Err())
	p.obs.Metrics().RecordParse(ctx, outcome, failed, time.Since(start))

	if outcome != observability.OutcomeOK {
		observability.LoggerWithTrace(ctx, p.logger).Debug("query string rejected",
			"outcome", outcome, "option", failed, "error", result.Error)
	}
}

// rawOptions collects the raw values of recognized options for span attributes.
func rawOptions(rawQuery string) map[string]string {
	options := make(map[string]string)
	for _, pair := range query.SplitRawQuery(rawQuery) {
		if query.IsOption(pair.Key) {
			options[pair.Key] = pair.Value
		}
	}
	return options
}
