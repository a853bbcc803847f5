package middleware

import (
	"net/http"

	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// withRoute appends http.route when chi matched a pattern. Unmatched
// requests get no route attribute so raw paths never become labels.
func withRoute(r *http.Request, attrs ...attribute.KeyValue) []attribute.KeyValue {
	if pattern := telemetry.HTTPRouteFromContext(r.Context()); pattern != "" {
		attrs = append(attrs, attribute.String("http.route", pattern))
	}
	return attrs
}

// RouteTagger hands the matched chi pattern to the enclosing otelhttp handler.
// otelhttp sees the request before chi routes it, so the pattern is only
// known here, after next returns. Unmatched requests are left untagged to
// keep raw paths out of metric labels.
func RouteTagger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			pattern := telemetry.HTTPRouteFromContext(r.Context())
			if pattern == "" {
				return
			}

			if labeler, ok := otelhttp.LabelerFromContext(r.Context()); ok {
				labeler.Add(attribute.String("http.route", pattern))
			}

			span := trace.SpanFromContext(r.Context())
			span.SetName(r.Method + " " + pattern)
			span.SetAttributes(attribute.String("http.route", pattern))
		})
	}
}
