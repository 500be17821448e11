package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// Model store backends.
const (
	ModelStoreFilesystem = "filesystem"
	ModelStorePostgres   = "postgres"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Port     int
}

type KafkaConfig struct {
	Topic         string
	ClientID      string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	Brokers       []string
	TLS           bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	JWTSecret    string
	PublicKeyPEM string
	Issuer       string
	Enabled      bool
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both halves of the key pair are configured.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// TrainingConfig is read from the YAML file named by TRAINING_CONFIG.
// Hyperparameter blocks start from the strategy defaults, so a file only
// needs the values it changes.
type TrainingConfig struct {
	Strategy           string                 `yaml:"strategy"`
	Schema             string                 `yaml:"schema"`
	RawPath            string                 `yaml:"raw_path"`
	CleanedPath        string                 `yaml:"cleaned_path"`
	Schedule           string                 `yaml:"schedule"`
	LogisticRegression service.LogisticConfig `yaml:"logistic_regression"`
	RandomForest       service.ForestConfig   `yaml:"random_forest"`
	GradientBoosting   service.BoostingConfig `yaml:"gradient_boosting"`
	TestFraction       float64                `yaml:"test_fraction"`
	Seed               uint64                 `yaml:"seed"`
}

// DefaultTrainingConfig returns the settings used when no file is given.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Strategy:           valueobject.StrategyLogisticRegression.String(),
		Schema:             valueobject.DefaultFeatureSchema().String(),
		RawPath:            "Master_Loan_Summary.csv",
		CleanedPath:        "cleaned_loans.csv",
		LogisticRegression: service.DefaultLogisticConfig(),
		RandomForest:       service.DefaultForestConfig(),
		GradientBoosting:   service.DefaultBoostingConfig(),
		TestFraction:       service.DefaultTestFraction,
		Seed:               service.DefaultSeed,
	}
}

// EstimatorConfig resolves the strategy name and hyperparameters.
func (t TrainingConfig) EstimatorConfig() (service.EstimatorConfig, error) {
	strategy, err := valueobject.NewStrategy(t.Strategy)
	if err != nil {
		return service.EstimatorConfig{}, err
	}
	forest := t.RandomForest
	if forest.Seed == 0 {
		forest.Seed = t.Seed
	}
	return service.EstimatorConfig{
		Strategy: strategy,
		Logistic: t.LogisticRegression,
		Forest:   forest,
		Boosting: t.GradientBoosting,
	}, nil
}

// FeatureSchema resolves the configured schema reference.
func (t TrainingConfig) FeatureSchema() (valueobject.FeatureSchema, error) {
	return valueobject.ParseFeatureSchema(t.Schema)
}

// TrainerConfig returns the split settings.
func (t TrainingConfig) TrainerConfig() service.TrainerConfig {
	return service.TrainerConfig{TestFraction: t.TestFraction, Seed: t.Seed}
}

// Config holds all configuration for the prediction service and trainer.
type Config struct {
	Tracing     TracingConfig
	TLS         TLSConfig
	Log         LogConfig
	Auth        AuthConfig
	ServiceName string
	Environment string
	ModelStore  string
	ModelDir    string
	ModelID     string
	DatasetPath string
	Redis       RedisConfig
	Kafka       KafkaConfig
	DB          DatabaseConfig
	Training    TrainingConfig
	GRPCPort    int
	HTTPPort    int
	// RateLimitRPS caps prediction requests per second; 0 disables it.
	RateLimitRPS   int
	GRPCReflection bool
}

// Load reads configuration from environment variables with sensible
// defaults, then the optional training YAML file. FEATURE_SCHEMA and
// MODEL_STRATEGY override the file.
func Load() (*Config, error) {
	cfg := &Config{
		GRPCPort:    getEnvInt("GRPC_PORT", 9090),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		ServiceName: getEnv("SERVICE_NAME", "loan-default"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		ModelStore: getEnv("MODEL_STORE", ModelStoreFilesystem),
		ModelDir:   getEnv("MODEL_DIR", "models"),
		ModelID:    getEnv("MODEL_ID", ""),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "loans"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loan_default"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:    getEnv("KAFKA_TOPIC", "loan-default.events"),
			ClientID: getEnv("KAFKA_CLIENT_ID", "loan-default"),
			TLS:      getEnvBool("KAFKA_TLS", false),

			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("INSIGHTS_CACHE_TTL", time.Hour),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			PublicKeyPEM: getEnv("JWT_PUBLIC_KEY", ""),
			Issuer:       getEnv("JWT_ISSUER", "loan-default"),
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		Tracing: TracingConfig{
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		Training:       DefaultTrainingConfig(),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 0),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
	}

	if path := getEnv("TRAINING_CONFIG", ""); path != "" {
		if err := loadTrainingFile(path, &cfg.Training); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("MODEL_STRATEGY"); v != "" {
		cfg.Training.Strategy = v
	}
	if v := os.Getenv("FEATURE_SCHEMA"); v != "" {
		cfg.Training.Schema = v
	}
	cfg.DatasetPath = getEnv("DATASET_PATH", cfg.Training.CleanedPath)

	return cfg, nil
}

func loadTrainingFile(path string, into *TrainingConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read training config: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse training config %s: %w", path, err)
	}
	return nil
}

// Validate checks cross-field requirements before any connection is made.
func (c *Config) Validate() error {
	switch c.ModelStore {
	case ModelStoreFilesystem:
		if c.ModelDir == "" {
			return fmt.Errorf("MODEL_DIR is required for the filesystem model store")
		}
	case ModelStorePostgres:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD environment variable is required for the postgres model store")
		}
	default:
		return fmt.Errorf("unknown MODEL_STORE %q", c.ModelStore)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" && c.Auth.PublicKeyPEM == "" {
		return fmt.Errorf("AUTH_ENABLED requires JWT_SECRET or JWT_PUBLIC_KEY")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if _, err := c.Training.EstimatorConfig(); err != nil {
		return err
	}
	if _, err := c.Training.FeatureSchema(); err != nil {
		return err
	}
	if f := c.Training.TestFraction; f <= 0 || f >= 1 {
		return fmt.Errorf("test_fraction must be in (0, 1), got %g", f)
	}
	return nil
}

func (c *Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
