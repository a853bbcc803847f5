package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrops-br/product-catalog-api/internal/app/mapper"
	"github.com/mrops-br/product-catalog-api/internal/app/service"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
)

const instrumentationName = "products-api"

func main() {
	cfg := config.LoadConfig()

	telem, err := telemetry.NewTelemetry(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)
	logger := telem.Logger

	logger.Info("Starting Products API")

	repo := memory.NewProductRepository(tracer, logger)
	productService := service.NewProductService(repo, mapper.New(), tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(cfg, productHandler, telem)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", slog.String("error", err.Error()))
	}
	if err := telem.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}

	logger.Info("Server stopped")
}
