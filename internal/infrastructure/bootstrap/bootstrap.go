// Package bootstrap builds the infrastructure adapters selected by config.
// Every constructor returns a cleanup func that is safe to call once.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/cache"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/config"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/messaging"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/persistence/filesystem"
	pgrepo "github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/persistence/postgres"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/auth"
	pkgkafka "github.com/Mohana-teja/loan-default-dashboard/pkg/kafka"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/observability"
	pkgpostgres "github.com/Mohana-teja/loan-default-dashboard/pkg/postgres"
)

func noop() {}

// ModelRepository opens the configured model registry. The postgres store
// runs its migrations before returning.
func ModelRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ModelRepository, func(), error) {
	switch cfg.ModelStore {
	case config.ModelStorePostgres:
		pgCfg := pkgpostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		}

		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pkgpostgres.RunMigrations(pgCfg.DSN(), pgrepo.Migrations, pgrepo.MigrationsDir); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("failed to migrate model registry: %w", err)
		}
		logger.Info("model registry: postgres", "host", cfg.DB.Host, "database", cfg.DB.Name)
		return pgrepo.NewModelRepo(pool), pool.Close, nil

	default:
		repo, err := filesystem.NewModelRepo(cfg.ModelDir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("model registry: filesystem", "dir", cfg.ModelDir)
		return repo, noop, nil
	}
}

// EventPublisher returns a Kafka publisher when brokers are configured and
// a log publisher otherwise.
func EventPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("no KAFKA_BROKERS configured, events go to the log")
		return messaging.NewLogPublisher(logger), noop, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
		TLS:      cfg.Kafka.TLS,
		SASL: pkgkafka.SASL{
			Enabled:   cfg.Kafka.SASLUsername != "",
			Mechanism: cfg.Kafka.SASLMechanism,
			Username:  cfg.Kafka.SASLUsername,
			Password:  cfg.Kafka.SASLPassword,
		},
	})
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	return messaging.NewKafkaPublisher(producer, cfg.Kafka.Topic), closeFn, nil
}

// InsightsCache connects to Redis when REDIS_ADDR is set. An unreachable
// Redis is logged and yields a nil cache so insights are recomputed; once
// connected, calls go through a circuit breaker.
func InsightsCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.InsightsCache, func()) {
	if cfg.Redis.Addr == "" {
		return nil, noop
	}
	client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("insights cache unavailable, continuing without it", "error", err)
		return nil, noop
	}
	redisCache := cache.NewRedisInsightsCache(client, cfg.Redis.TTL)
	guarded := cache.NewBreakerCache(redisCache, cache.DefaultBreakerConfig(), logger)
	return guarded, func() { _ = client.Close() }
}

// JWTService returns nil when authentication is disabled.
func JWTService(cfg *config.Config) (*auth.JWTService, error) {
	if !cfg.Auth.Enabled {
		return nil, nil
	}
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:       cfg.Auth.JWTSecret,
		PublicKeyPEM: cfg.Auth.PublicKeyPEM,
		Issuer:       cfg.Auth.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	return svc, nil
}

// Tracing installs the OTLP tracer when an endpoint is configured. The
// returned func flushes it.
func Tracing(ctx context.Context, cfg *config.Config, logger *slog.Logger) func(context.Context) error {
	if cfg.Tracing.Endpoint == "" {
		return func(context.Context) error { return nil }
	}
	shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		return func(context.Context) error { return nil }
	}
	return shutdown
}

// Trainer builds the encoder, estimator and trainer from the training config.
func Trainer(training config.TrainingConfig) (*service.Trainer, error) {
	schema, err := training.FeatureSchema()
	if err != nil {
		return nil, err
	}
	encoder, err := service.NewEncoder(schema)
	if err != nil {
		return nil, err
	}
	estCfg, err := training.EstimatorConfig()
	if err != nil {
		return nil, err
	}
	estimator, err := service.NewEstimator(estCfg)
	if err != nil {
		return nil, err
	}
	return service.NewTrainer(encoder, estimator, training.TrainerConfig()), nil
}
