package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

// HTTPRouteFromContext returns the chi route pattern matched so far for the
// request carried by ctx. chi fills the pattern in place while routing, so
// records logged from inside a handler see the full pattern.
func HTTPRouteFromContext(ctx context.Context) string {
	if rctx := chi.RouteContext(ctx); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// contextHandler decorates records with request-scoped attributes carried by
// the context: trace/span ids, chi request id and the matched route.
type contextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next so that every record logged with a context
// carries its correlation attributes
func NewContextHandler(next slog.Handler) slog.Handler {
	return &contextHandler{next: next}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("request_id", reqID))
	}

	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}

	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}

func initLogger(cfg *config.OTLPConfig) *slog.Logger {
	return NewLogger(os.Stdout, cfg)
}

// NewLogger builds the JSON service logger writing to w
func NewLogger(w io.Writer, cfg *config.OTLPConfig) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})

	return slog.New(NewContextHandler(jsonHandler)).With(
		slog.String("service.name", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
}
