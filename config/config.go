// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

const developmentJWTSecret = "development-only-secret"

// Config contains all service configuration.
type Config struct {
	Service   Service
	Logging   Logging
	Database  Database
	JWT       JWT
	RateLimit RateLimit
	Tracing   Tracing
	Profiling Profiling
	Shutdown  Shutdown
}

// Service identifies the running process.
type Service struct {
	Port    string `env:"PORT" envDefault:"5000"`
	Name    string `env:"SERVICE_NAME" envDefault:"jobs-service"`
	Version string `env:"SERVICE_VERSION" envDefault:"dev"`
	Env     string `env:"ENV" envDefault:"development"`
	// TrustedProxies lists the proxy IPs or CIDRs whose forwarding headers
	// are honoured. Empty keys clients on the socket address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Logging contains logger parameters.
type Logging struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Database selects and addresses the backing store.
type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	// URL is a Postgres DSN or a MongoDB URI depending on Driver.
	URL           string `env:"CONNECT_STRING"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"jobster"`
	AutoMigrate   bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// JWT contains token signing parameters.
type JWT struct {
	Secret   string        `env:"JWT_SECRET"`
	Lifetime time.Duration `env:"JWT_LIFETIME" envDefault:"720h"`
}

// RateLimit configures the limiter in front of the auth endpoints.
// An empty RedisAddr selects the in-process limiter.
type RateLimit struct {
	Max           int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RedisAddr     string        `env:"RATE_LIMIT_REDIS_ADDR"`
	RedisPassword string        `env:"RATE_LIMIT_REDIS_PASSWORD"`
	RedisDB       int           `env:"RATE_LIMIT_REDIS_DB" envDefault:"0"`
}

// Tracing contains OpenTelemetry exporter parameters.
type Tracing struct {
	Enabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Endpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Profiling contains Pyroscope parameters.
type Profiling struct {
	Enabled  bool   `env:"PROFILING_ENABLED" envDefault:"false"`
	Endpoint string `env:"PYROSCOPE_ENDPOINT" envDefault:"http://localhost:4040"`
}

// Shutdown controls graceful termination.
type Shutdown struct {
	Timeout             time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadinessDrainDelay time.Duration `env:"READINESS_DRAIN_DELAY" envDefault:"0s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.JWT.Secret == "" && cfg.IsDevelopment() {
		cfg.JWT.Secret = developmentJWTSecret
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Service.Env == "development"
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q: %w", c.Logging.Level, err))
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("CONNECT_STRING is required for driver %q", c.Database.Driver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of postgres, mongo, memory", c.Database.Driver))
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.JWT.Lifetime <= 0 {
		errs = append(errs, errors.New("JWT_LIFETIME must be positive"))
	}
	if c.RateLimit.Max <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("TRACING_SAMPLE_RATE must be between 0 and 1"))
	}
	if c.Shutdown.Timeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
