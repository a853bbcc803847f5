package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
)

// StructuredLogger writes one JSON access log record per request, replacing
// chi's text logger. Trace and request ids are added by the logger's handler.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := statusOf(ww)

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "HTTP request completed",
				slog.String("http.request.method", r.Method),
				slog.String("http.route", telemetry.HTTPRouteFromContext(r.Context())),
				slog.String("url.path", r.URL.Path),
				slog.String("url.query", r.URL.RawQuery),
				slog.Int("http.response.status_code", status),
				slog.Int("http.response.body.size", ww.BytesWritten()),
				slog.String("duration", duration.String()),
				slog.Float64("duration_ms", milliseconds(duration)),
				slog.String("client.address", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
			)
		})
	}
}
