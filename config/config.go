package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret       string `env:"JWT_SECRET,required"       validate:"required,min=32"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS"         envDefault:"24" validate:"min=1,max=720"`

	AccountTokenTTLHours int `env:"ACCOUNT_TOKEN_TTL_HOURS" envDefault:"24" validate:"min=1,max=168"`

	BcryptCost  int `env:"BCRYPT_COST"  envDefault:"12" validate:"min=4,max=31"`
	HashWorkers int `env:"HASH_WORKERS" envDefault:"4"  validate:"min=1,max=64"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
	LinkBase     string `env:"LINK_BASE_URL"  envDefault:"http://localhost:8080"`

	SweepIntervalSec   int `env:"SWEEP_INTERVAL_SEC"   envDefault:"3600" validate:"min=60"`
	TokenRetentionDays int `env:"TOKEN_RETENTION_DAYS" envDefault:"30"   validate:"min=1"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps the LOG_LEVEL string onto slog levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
