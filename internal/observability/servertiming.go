package observability

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// ServerTimingParse is the Server-Timing metric name for a request parse.
const ServerTimingParse = "odata-parse"

// StartServerTiming starts a Server-Timing metric on the timing header carried
// by ctx and returns the function that stops it. Without a header in ctx,
// as when servertiming.Middleware is not installed, the returned function
// does nothing.
func StartServerTiming(ctx context.Context, name, description string) (stop func()) {
	header := servertiming.FromContext(ctx)
	if header == nil {
		return func() {}
	}
	m := header.NewMetric(name)
	if description != "" {
		m.WithDesc(description)
	}
	m.Start()
	return func() { m.Stop() }
}
