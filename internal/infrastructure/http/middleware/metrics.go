package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ActiveRequestsMiddleware tracks in-flight requests. The counter is
// incremented on the first write so the route pattern is already resolved,
// and decremented with the same attributes once the handler returns.
func ActiveRequestsMiddleware(meter metric.Meter) func(next http.Handler) http.Handler {
	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &activeRequestWriter{
				ResponseWriter: w,
				request:        r,
				counter:        activeRequests,
			}

			next.ServeHTTP(tw, r)

			tw.finish()
		})
	}
}

type activeRequestWriter struct {
	http.ResponseWriter
	request *http.Request
	counter metric.Int64UpDownCounter
	attrs   []attribute.KeyValue
}

func (w *activeRequestWriter) WriteHeader(statusCode int) {
	w.start()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *activeRequestWriter) Write(b []byte) (int, error) {
	w.start()
	return w.ResponseWriter.Write(b)
}

func (w *activeRequestWriter) start() {
	if w.attrs != nil {
		return
	}
	w.attrs = withRoute(w.request,
		attribute.String("http.request.method", w.request.Method),
		attribute.String("server.address", w.request.Host),
	)
	w.counter.Add(w.request.Context(), 1, metric.WithAttributes(w.attrs...))
}

// finish balances start, starting first if the handler never wrote
func (w *activeRequestWriter) finish() {
	w.start()
	w.counter.Add(w.request.Context(), -1, metric.WithAttributes(w.attrs...))
}

// DurationMillisecondsMiddleware records request duration in milliseconds,
// next to the seconds-based histogram otelhttp already emits
func DurationMillisecondsMiddleware(meter metric.Meter) func(next http.Handler) http.Handler {
	durationHistogram, err := meter.Float64Histogram(
		"http.server.request.duration.ms",
		metric.WithDescription("HTTP server request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return passThrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			durationHistogram.Record(r.Context(), milliseconds(time.Since(start)),
				metric.WithAttributes(withRoute(r,
					attribute.String("http.request.method", r.Method),
					attribute.Int("http.response.status_code", statusOf(ww)),
					attribute.String("server.address", r.Host),
				)...),
			)
		})
	}
}

// milliseconds keeps sub-millisecond precision
func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func passThrough(next http.Handler) http.Handler {
	return next
}

// statusOf reports 200 for handlers that never called WriteHeader
func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
