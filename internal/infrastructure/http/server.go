package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const meterName = "products-api"

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *config.ServerConfig
	metrics    *config.MetricsConfig
	handler    *handler.ProductHandler
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	handler *handler.ProductHandler,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    &cfg.Server,
		metrics:   &cfg.Metrics,
		handler:   handler,
		logger:    telem.Logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.RouteTagger())
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	meter := s.telemetry.MeterProvider.Meter(meterName)
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	if s.metrics.DurationMilliseconds {
		s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
	}
}

func (s *Server) setupRoutes() {
	s.router.Route("/products", func(r chi.Router) {
		r.Post("/", s.handler.CreateProduct)
		r.Get("/", s.handler.ListProducts)
		r.Get("/{id}", s.handler.GetProduct)
		r.Put("/{id}", s.handler.UpdateProduct)
		r.Delete("/{id}", s.handler.DeleteProduct)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Method(http.MethodGet, "/metrics", s.telemetry.MetricsHandler())
}

// Handler returns the router wrapped with otelhttp for HTTP spans and the
// standard http.server.* metrics. The route attribute and final span name are
// supplied by RouteTagger once chi has matched the request.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
	)
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
