package odata

import (
	"net/http"

	"github.com/nlstn/go-odata-query/internal/observability"
)

// ParseRequest parses the URL-encoded query string of r. The raw query is
// split on '&' before each key and value is decoded, so an encoded '&' inside
// a $filter literal stays part of the literal. A query string that cannot be
// decoded is reported in Result.Error as ErrInvalidQuery.
func (p *Parser) ParseRequest(r *http.Request) (*Result, error) {
	ctx := r.Context()
	if p.obs.ServerTimingEnabled() {
		stop := observability.StartServerTiming(ctx, observability.ServerTimingParse, "OData query parse")
		defer stop()
	}
	return p.ParseEncoded(ctx, r.URL.RawQuery)
}
