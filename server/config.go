package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Narration model; empty means template-only banker lines.
	NarrationModel   string        `env:"NARRATION_MODEL"`
	NarrationTimeout time.Duration `env:"NARRATION_TIMEOUT" envDefault:"10s"`

	// How long finished games stay readable before eviction.
	SessionRetention time.Duration `env:"SESSION_RETENTION" envDefault:"1h"`
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}
	return cfg, nil
}
