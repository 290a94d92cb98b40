package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/stockroom/internal/auth"
	"github.com/mmynk/stockroom/internal/blob"
	"github.com/mmynk/stockroom/internal/config"
	"github.com/mmynk/stockroom/internal/httpapi"
	"github.com/mmynk/stockroom/internal/service"
	"github.com/mmynk/stockroom/internal/storage"
	"github.com/mmynk/stockroom/internal/storage/postgres"
	"github.com/mmynk/stockroom/internal/storage/sqlite"
	"github.com/mmynk/stockroom/internal/telemetry"
	"github.com/mmynk/stockroom/pkg/logging"
)

const (
	serviceName     = "stockroom"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	blobs, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Initialize services
	jwtManager := auth.NewJWTManager(cfg.SecretKey, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:           service.NewAuthService(authenticator, store, jwtManager, logger),
		Inventory:      service.NewInventoryService(store, logger),
		Status:         service.NewStatusService(store, logger),
		Uploads:        service.NewUploadService(blobs, logger),
		JWT:            jwtManager,
		Logger:         logger,
		Registry:       registry,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(otelhttp.NewHandler(router, serviceName), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// openStore selects the backend from DATABASE_URL and wraps it with retries.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	if cfg.IsPostgres() {
		store, err = postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Storage initialized", "backend", "postgres")
	} else {
		store, err = sqlite.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Storage initialized", "backend", "sqlite", "database", cfg.DatabaseURL)
	}
	return storage.WithRetry(store, cfg.RetryPolicy(), logger), nil
}

func openBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (blob.Store, error) {
	if cfg.S3.Bucket != "" {
		s, err := blob.NewS3Store(ctx, blob.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Uploads go to S3", "bucket", cfg.S3.Bucket)
		return s, nil
	}

	s, err := blob.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Uploads go to local directory", "path", cfg.UploadDir)
	return s, nil
}
