package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir        string        `env:"SPA_DIR" envDefault:"../web/dist"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	SyncTimeout   time.Duration `env:"SYNC_TIMEOUT" envDefault:"10s"`
	SessionIdle   time.Duration `env:"SESSION_IDLE" envDefault:"12h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	StrictOutcome bool          `env:"STRICT_OUTCOMES" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SyncTimeout <= 0 {
		return nil, fmt.Errorf("SYNC_TIMEOUT must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	return &cfg, nil
}
