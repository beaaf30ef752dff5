package odata

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestParse(t *testing.T) {
	result, err := Parse("$top=2&$filter=Date gt datetime'2012-09-27T21:12:59'")
	require.NoError(t, err)
	require.NotNil(t, result.Top)
	assert.Equal(t, int64(2), *result.Top)

	bin, ok := result.Filter.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpGreaterThan, bin.Operator)
	assert.Equal(t, KindLiteral, bin.Right.Kind())
}

func TestParse_InvalidOption(t *testing.T) {
	result, err := Parse("$top=foo")
	require.NoError(t, err)
	assert.Equal(t, "invalid $top parameter", result.Error)
	assert.Equal(t, OptionTop, result.FailedOption)
	assert.ErrorIs(t, result.Err(), ErrInvalidTop)
}

func TestParse_SyntaxError(t *testing.T) {
	result, err := Parse("$skip=1&$filter=Name eq 'x")
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 8, syntaxErr.Pos)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)

	assert.Equal(t, "invalid $filter parameter: unterminated string literal at position 8", result.Error)
	require.NotNil(t, result.Skip)
	assert.Equal(t, int64(1), *result.Skip)
}

func TestNewParser_NegativeCache(t *testing.T) {
	_, err := NewParser(WithCache(-1))
	assert.Error(t, err)
}

func TestParser_Cache(t *testing.T) {
	p, err := NewParser(WithCache(8))
	require.NoError(t, err)

	first, err := p.Parse("$top=1&$orderby=Name desc")
	require.NoError(t, err)
	second, err := p.Parse("$top=1&$orderby=Name desc")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, errFirst := p.Parse("$filter=(A eq 1")
	_, errSecond := p.Parse("$filter=(A eq 1")
	require.Error(t, errFirst)
	assert.Same(t, errFirst, errSecond)
}

func TestParser_CacheSeparatesEncodedInput(t *testing.T) {
	p, err := NewParser(WithCache(8))
	require.NoError(t, err)

	decoded, _ := p.Parse("$select=A%20B")
	encoded, _ := p.ParseEncoded(context.Background(), "$select=A%20B")

	assert.Equal(t, "invalid $select parameter", decoded.Error)
	assert.Equal(t, "invalid $select parameter", encoded.Error)

	plus, _ := p.ParseEncoded(context.Background(), "$select=A,%20B")
	assert.Empty(t, plus.Error)
	assert.Equal(t, []string{"A", "B"}, plus.Select)
}

func TestParser_StrictArity(t *testing.T) {
	lenient, err := NewParser()
	require.NoError(t, err)
	_, err = lenient.Parse("$filter=substring(Name) eq 'a'")
	require.NoError(t, err)

	strict, err := NewParser(WithStrictArity())
	require.NoError(t, err)
	_, err = strict.Parse("$filter=substring(Name) eq 'a'")

	var arityErr *ArityError
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, "substring", arityErr.Function)
	assert.Equal(t, []int{2, 3}, arityErr.Accepted)
}

func TestParser_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := NewParser(WithLogger(logger))
	require.NoError(t, err)

	_, err = p.Parse("$unknown=1&$inlinecount=sometimes")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ignoring unrecognized query option")
	assert.Contains(t, out, "query string rejected")
	assert.Contains(t, out, "outcome=invalid_option")
}

func TestParser_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p, err := NewParser(WithTracerProvider(tp), WithQueryOptionTracing(), WithServiceName("catalog"))
	require.NoError(t, err)

	_, err = p.ParseContext(context.Background(), "$top=3&$filter=Price gt 5")
	require.NoError(t, err)
	_, err = p.ParseContext(context.Background(), "$filter=Price gt")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := attributesOf(spans[0].Attributes())
	assert.Equal(t, "odata.parse", spans[0].Name())
	assert.Equal(t, "ok", ok["odata.parse.outcome"])
	assert.Equal(t, "3", ok["odata.query.top"])
	assert.Equal(t, "Price gt 5", ok["odata.query.filter"])

	failed := attributesOf(spans[1].Attributes())
	assert.Equal(t, "syntax_error", failed["odata.parse.outcome"])
	assert.Equal(t, "$filter", failed["odata.parse.failed_option"])
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func attributesOf(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestParser_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	p, err := NewParser(WithMeterProvider(mp), WithCache(4))
	require.NoError(t, err)

	for _, raw := range []string{"$top=1", "$top=1", "$top=x"} {
		_, _ = p.Parse(raw)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(3), counterTotal(t, rm, "odata.parse.count"))
	assert.Equal(t, int64(1), counterTotal(t, rm, "odata.parse.error.count"))
	assert.Equal(t, int64(1), counterTotal(t, rm, "odata.parse.cache.hits"))
}

func counterTotal(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return 0
}

func TestParser_Concurrent(t *testing.T) {
	p, err := NewParser(WithCache(16))
	require.NoError(t, err)

	queries := []string{
		"$top=1",
		"$filter=Name eq 'a' and (Age gt 3 or Age lt 1)",
		"$orderby=A desc,B",
		"$filter=bad eq",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				raw := queries[j%len(queries)]
				result, err := p.Parse(raw)
				if strings.HasPrefix(raw, "$filter=bad") {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
					assert.Empty(t, result.Error)
				}
			}
		}()
	}
	wg.Wait()
}

func TestParseRequest(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/Products?$filter=Name%20eq%20%27a%26b%27&%24top=2&$skip=1", nil)
	result, err := p.ParseRequest(req)
	require.NoError(t, err)

	require.NotNil(t, result.Top)
	assert.Equal(t, int64(2), *result.Top)
	require.NotNil(t, result.Skip)
	assert.Equal(t, int64(1), *result.Skip)

	bin := result.Filter.(*BinaryExpr)
	assert.Equal(t, "a&b", bin.Right.(*LiteralExpr).Value)
}

func TestParseRequest_Undecodable(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/Products", nil)
	req.URL.RawQuery = "$top=%zz"
	result, err := p.ParseRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "invalid query string", result.Error)
	assert.True(t, errors.Is(result.Err(), ErrInvalidQuery))
}

func TestParseRequest_ServerTiming(t *testing.T) {
	p, err := NewParser(WithServerTiming())
	require.NoError(t, err)

	handler := servertiming.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := p.ParseRequest(r)
		if err != nil || result.Error != "" {
			http.Error(w, result.Error, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Products?$top=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Server-Timing"), "odata-parse")
}

func TestFunctions(t *testing.T) {
	names := Functions()
	assert.Contains(t, names, "substringof")
	assert.Contains(t, names, "replace")
	assert.Len(t, names, 16)
}

func TestCheckArityAndWalk(t *testing.T) {
	node, err := ParseFilter("concat(A) eq 'x'")
	require.NoError(t, err)
	assert.Error(t, CheckArity(node))

	var properties []string
	require.NoError(t, Walk(node, func(n ASTNode) error {
		if prop, ok := n.(*PropertyExpr); ok {
			properties = append(properties, prop.Name)
		}
		return nil
	}))
	assert.Equal(t, []string{"A"}, properties)
}
