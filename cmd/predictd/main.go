package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/usecase"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/bootstrap"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/config"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/dataset"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/telemetry"
	grpcPresentation "github.com/Mohana-teja/loan-default-dashboard/internal/presentation/grpc"
	"github.com/Mohana-teja/loan-default-dashboard/internal/presentation/rest"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/observability"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("predictd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
		Env:     cfg.Environment,
	})
	logger.Info("starting predictd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"model_store", cfg.ModelStore,
	)

	shutdownTracer := bootstrap.Tracing(ctx, cfg, logger)
	defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer flush

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	metrics, err := telemetry.NewMetrics(meterProvider)
	if err != nil {
		return err
	}

	// Wire infrastructure adapters.
	repo, closeRepo, err := bootstrap.ModelRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	publisher, closePublisher, err := bootstrap.EventPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	insightsCache, closeCache := bootstrap.InsightsCache(ctx, cfg, logger)
	defer closeCache()

	jwtSvc, err := bootstrap.JWTService(cfg)
	if err != nil {
		return err
	}

	// The model is loaded before any listener opens; a missing or corrupt
	// artifact stops the process here.
	var modelID uuid.UUID
	if cfg.ModelID != "" {
		if modelID, err = uuid.Parse(cfg.ModelID); err != nil {
			return fmt.Errorf("invalid MODEL_ID: %w", err)
		}
	}
	provider := usecase.NewLazyModelProvider(repo, modelID)
	m, err := provider.Model(ctx)
	if err != nil {
		return err
	}
	if configured, perr := cfg.Training.FeatureSchema(); perr == nil && !configured.Equal(m.Schema()) {
		logger.Warn("serving model schema differs from FEATURE_SCHEMA; using the model's",
			"model_schema", m.Schema().String(), "configured", configured.String())
	}
	logger.Info("model loaded",
		"model_id", m.ID(),
		"strategy", m.Strategy().String(),
		"schema", m.Schema().String(),
		"trained_at", m.TrainedAt(),
	)

	encoder, err := service.NewEncoder(m.Schema())
	if err != nil {
		return err
	}

	// Wire use cases.
	predictUC := usecase.NewPredictDefault(provider, publisher, metrics, encoder, logger)
	modelInfoUC := usecase.NewGetModelInfo(provider)
	insightsUC := usecase.NewGenerateInsights(
		dataset.NewCSVStore(), insightsCache, service.NewCleaner(), service.NewInsightsReporter(), logger)

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewPredictionHandler(predictUC, modelInfoUC, logger),
		logger,
		grpcPresentation.ServerOptions{
			JWT:         jwtSvc,
			TLSCertFile: cfg.TLS.CertFile,
			TLSKeyFile:  cfg.TLS.KeyFile,
			Reflection:  cfg.GRPCReflection,
		},
	)
	if err != nil {
		return err
	}
	grpcServer.SetServing(provider.Loaded())

	// HTTP server.
	var limiter *rest.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = rest.NewRateLimiter(cfg.RateLimitRPS)
	}
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Health:  rest.NewHealthHandler(cfg.ServiceName, provider.Loaded, logger),
			API:     rest.NewPredictionHandler(predictUC, modelInfoUC, insightsUC, cfg.DatasetPath, logger),
			Metrics: metricsHandler,
			JWT:     jwtSvc,
			Limiter: limiter,
			Logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLS.Enabled() {
		tlsCfg, err := tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return err
		}
		httpServer.TLSConfig = tlsCfg
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr(), "tls", cfg.TLS.Enabled())
		var err error
		if cfg.TLS.Enabled() {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("predictd stopped")
	return serveErr
}
